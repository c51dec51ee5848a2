// Package server wires the HTTP surface: routing, CORS, and the request
// handlers for the LeetCode and GitHub read-throughs and the refresh
// trigger.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/codefolio/portfolio-stats-api/internal/api"
	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
	"github.com/codefolio/portfolio-stats-api/internal/store"
	"github.com/codefolio/portfolio-stats-api/internal/worker"
)

type leetcodeService interface {
	Summary(ctx context.Context, username string) (*domain.LeetcodeSummary, error)
}

type snapshotReader interface {
	Load(ctx context.Context) (*domain.StatsSnapshot, error)
}

type userChecker interface {
	LookupUser(ctx context.Context, user string) (int, error)
}

type refreshTrigger interface {
	Trigger(username string) (*worker.Job, bool)
}

// Handler carries the collaborators of the HTTP endpoints.
type Handler struct {
	log      *slog.Logger
	leetcode leetcodeService
	store    snapshotReader
	github   userChecker
	worker   refreshTrigger

	// refreshProfile is the username refreshed when the request path does
	// not name one.
	refreshProfile string
}

// NewHandler creates a new Handler instance.
func NewHandler(log *slog.Logger, leetcode leetcodeService, snapshots snapshotReader, github userChecker, trigger refreshTrigger, refreshProfile string) *Handler {
	return &Handler{
		log:            log,
		leetcode:       leetcode,
		store:          snapshots,
		github:         github,
		worker:         trigger,
		refreshProfile: refreshProfile,
	}
}

// Root points callers at the API paths.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, api.Error("please use /api/v1/leetcode/{username}, /api/v1/github/{username} or /api/v1/refresh"))
}

// Leetcode serves the synchronous LeetCode summary.
func (h *Handler) Leetcode(w http.ResponseWriter, r *http.Request) {
	const op = "server.Leetcode"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", chimw.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	summary, err := h.leetcode.Summary(r.Context(), username)
	if err != nil {
		log.Error("failed to fetch leetcode summary", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.ServerError())
		return
	}
	render.JSON(w, r, summary)
}

// GithubStats serves the last persisted snapshot without recomputation.
func (h *Handler) GithubStats(w http.ResponseWriter, r *http.Request) {
	const op = "server.GithubStats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", chimw.GetReqID(r.Context())),
	)

	snap, err := h.store.Load(r.Context())
	if errors.Is(err, store.ErrNoSnapshot) {
		render.JSON(w, r, &domain.StatsSnapshot{})
		return
	}
	if err != nil {
		log.Error("failed to load snapshot", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.ServerError())
		return
	}
	render.JSON(w, r, snap)
}

// Refresh validates the target user and hands the job to the worker. The
// response does not wait for the aggregation.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "server.Refresh"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", chimw.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if username == "" {
		username = h.refreshProfile
	}
	if username == "" {
		log.Error("no refresh profile configured and none given in path")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.MessageResponse{Message: "Username not found"})
		return
	}

	status, err := h.github.LookupUser(r.Context(), username)
	if err != nil {
		log.Error("user pre-check failed", sl.Err(err), slog.Int("status", status))
		render.Status(r, status)
		render.JSON(w, r, api.MessageResponse{Message: http.StatusText(status)})
		return
	}

	if _, ok := h.worker.Trigger(username); !ok {
		log.Warn("refresh rejected, job already in flight", slog.String("username", username))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, api.MessageResponse{Message: "A refresh job is already in flight"})
		return
	}

	log.Info("refresh worker triggered", slog.String("username", username))
	render.JSON(w, r, api.MessageResponse{Message: "Refresh worker has been triggered successfully..."})
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.StatusResponse{Status: "success", Message: "ok"})
}
