// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/codefolio/portfolio-stats-api/internal/config"
	"github.com/codefolio/portfolio-stats-api/internal/gateway"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
	"github.com/codefolio/portfolio-stats-api/internal/metrics"
	"github.com/codefolio/portfolio-stats-api/internal/server"
	"github.com/codefolio/portfolio-stats-api/internal/store"
	"github.com/codefolio/portfolio-stats-api/internal/usecase"
	"github.com/codefolio/portfolio-stats-api/internal/worker"
)

const envLocal = "local"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API and the background refresh worker",
	Long: `Starts the HTTP server exposing the LeetCode and GitHub stats
endpoints, opens the snapshot store, and supervises the asynchronous
refresh worker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustLoad()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := setupLogger(cfg.Env, verbose)
		logger.Info("starting portfolio-stats-api", slog.String("env", cfg.Env))

		snapshots, err := store.Open(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open snapshot store", sl.Err(err))
			return err
		}
		defer snapshots.Close()

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger,
			gateway.WithPageSize(cfg.GitHub.PageSize),
			gateway.WithCommitPageLimit(cfg.GitHub.CommitPageLimit),
		)
		if err != nil {
			logger.Error("failed to create GitHub gateway", sl.Err(err))
			return err
		}
		leetcodeGateway := gateway.NewLeetcodeGateway(cfg.Leetcode.Endpoint, nil, logger)

		refresher := usecase.NewRefresher(githubGateway, snapshots, logger)
		leetcodeService := usecase.NewLeetcodeService(leetcodeGateway, logger,
			cfg.Leetcode.MockRanking, cfg.Leetcode.PlaceholderRanking)

		registry := prometheus.NewRegistry()
		refreshWorker := worker.New(refresher, logger, metrics.New(registry))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		hook := (&sutureslog.Handler{Logger: logger}).MustHook()
		supervisor := suture.New("portfolio-stats-api", suture.Spec{EventHook: hook})
		supervisor.Add(refreshWorker)
		supErr := supervisor.ServeBackground(ctx)

		handler := server.NewHandler(logger, leetcodeService, snapshots,
			githubGateway, refreshWorker, cfg.GitHub.RefreshProfile)
		router := server.NewRouter(handler, cfg.CORS.AllowedOrigins, registry)

		srv := &http.Server{
			Addr:         cfg.HTTPServer.Address,
			Handler:      router,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown failed", sl.Err(err))
			}
		}()

		logger.Info("starting http server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", sl.Err(err))
			return err
		}

		if err := <-supErr; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("supervisor stopped with error", sl.Err(err))
			return err
		}
		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func setupLogger(env string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if env == envLocal {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
