// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/gateway"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
)

// SnapshotStore persists exactly one stats snapshot, replacing any prior
// one wholesale.
type SnapshotStore interface {
	Save(ctx context.Context, snap *domain.StatsSnapshot) error
	Load(ctx context.Context) (*domain.StatsSnapshot, error)
}

// defaultConcurrency bounds the per-repository fan-out.
const defaultConcurrency = 5

// Refresher recomputes the GitHub stats snapshot for one user. It is the
// unit of work behind the asynchronous refresh endpoint.
type Refresher struct {
	fetcher     gateway.Fetcher
	store       SnapshotStore
	logger      *slog.Logger
	concurrency int
}

// NewRefresher creates a new Refresher instance.
func NewRefresher(fetcher gateway.Fetcher, store SnapshotStore, logger *slog.Logger) *Refresher {
	return &Refresher{
		fetcher:     fetcher,
		store:       store,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// Refresh lists every repository the user owns, fans out per-repository
// pull-request and commit counts on a bounded worker pool, and persists the
// assembled snapshot. Any fetch failure aborts the whole job: nothing is
// persisted and the previously stored snapshot stays in place.
func (r *Refresher) Refresh(ctx context.Context, username string) (*domain.StatsSnapshot, error) {
	start := time.Now()
	r.logger.Info("refresh job started", slog.String("username", username))

	repos, err := r.fetcher.ListRepositories(ctx, username)
	if err != nil {
		r.logger.Error("refresh job failed", sl.Err(err),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	stars := 0
	for _, repo := range repos {
		stars += repo.Stars
	}

	// Per-index result slots keep the fan-out race-free without a mutex.
	pulls := make([]int, len(repos))
	commits := make([]int, len(repos))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			n, err := r.fetcher.CountPullRequests(egCtx, username, repo.Name)
			if err != nil {
				return err
			}
			pulls[i] = n

			c, err := r.fetcher.CountCommitsByAuthor(egCtx, username, repo.Name, username)
			if err != nil {
				return err
			}
			commits[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		r.logger.Error("refresh job failed", sl.Err(err),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	snap := &domain.StatsSnapshot{
		Repos:       len(repos),
		Stars:       stars,
		RefreshedAt: time.Now().UTC(),
	}
	for i := range repos {
		snap.Pulls += pulls[i]
		snap.Commits += commits[i]
	}

	if err := r.store.Save(ctx, snap); err != nil {
		r.logger.Error("refresh job failed", sl.Err(err),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Info("refresh job finished",
		slog.String("username", username),
		slog.Int("repos", snap.Repos),
		slog.Int("commits", snap.Commits),
		slog.Int("pulls", snap.Pulls),
		slog.Int("stars", snap.Stars),
		slog.Duration("elapsed", time.Since(start)))
	return snap, nil
}
