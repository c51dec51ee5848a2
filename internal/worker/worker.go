// Package worker runs refresh jobs out of band from the HTTP request that
// triggered them. Submission is fire-and-forget: the trigger returns as soon
// as the job is queued, and learns the outcome only by polling the store.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
	"github.com/codefolio/portfolio-stats-api/internal/metrics"
)

// Refresher is the unit of work the worker executes.
type Refresher interface {
	Refresh(ctx context.Context, username string) (*domain.StatsSnapshot, error)
}

// Job is one queued refresh. Its completion channel exists so future
// callers can observe the outcome; the HTTP trigger ignores it today.
type Job struct {
	Username string

	done chan struct{}
	err  error
}

// Done is closed when the job finishes, success or failure.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err reports the job outcome. Only valid after Done is closed.
func (j *Job) Err() error { return j.err }

// Worker consumes refresh jobs from a single-slot queue: at most one job
// runs at a time and at most one more can wait. Concurrent triggers beyond
// that are rejected rather than queued, so duplicate work is not stacked up.
type Worker struct {
	refresher Refresher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	jobs      chan *Job
}

// New creates a Worker. metrics may be nil in tests.
func New(refresher Refresher, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		refresher: refresher,
		logger:    logger,
		metrics:   m,
		jobs:      make(chan *Job, 1),
	}
}

// Trigger queues a refresh for username without blocking. The second return
// value is false when the queue slot is already taken.
func (w *Worker) Trigger(username string) (*Job, bool) {
	job := &Job{Username: username, done: make(chan struct{})}
	select {
	case w.jobs <- job:
		if w.metrics != nil {
			w.metrics.JobsStarted.Inc()
		}
		return job, true
	default:
		if w.metrics != nil {
			w.metrics.JobsRejected.Inc()
		}
		return nil, false
	}
}

// Serve consumes jobs until ctx is cancelled. It satisfies the
// suture.Service interface so the serve command can supervise it.
func (w *Worker) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.jobs:
			w.run(ctx, job)
		}
	}
}

func (w *Worker) run(ctx context.Context, job *Job) {
	start := time.Now()
	_, err := w.refresher.Refresh(ctx, job.Username)
	elapsed := time.Since(start)

	job.err = err
	close(job.done)

	if w.metrics != nil {
		w.metrics.JobDuration.Observe(elapsed.Seconds())
	}
	if err != nil {
		if w.metrics != nil {
			w.metrics.JobsFailed.Inc()
		}
		// No HTTP observer exists by the time a detached job fails; the log
		// line is the only trace.
		w.logger.Error("refresh worker job failed", sl.Err(err),
			slog.String("username", job.Username),
			slog.Duration("elapsed", elapsed))
		return
	}
	if w.metrics != nil {
		w.metrics.JobsSucceeded.Inc()
	}
	w.logger.Info("refresh worker job succeeded",
		slog.String("username", job.Username),
		slog.Duration("elapsed", elapsed))
}

// String names the service in supervisor logs.
func (w *Worker) String() string { return "refresh-worker" }
