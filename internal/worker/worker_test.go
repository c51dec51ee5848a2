package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
)

// stubRefresher lets the test control when a job finishes and what it
// returns.
type stubRefresher struct {
	block   chan struct{}
	started chan string
	err     error
}

func (s *stubRefresher) Refresh(ctx context.Context, username string) (*domain.StatsSnapshot, error) {
	if s.started != nil {
		s.started <- username
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.StatsSnapshot{Repos: 1}, nil
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not complete in time")
	}
}

func TestWorker_RunsTriggeredJob(t *testing.T) {
	w := New(&stubRefresher{}, sl.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	job, ok := w.Trigger("moon")
	require.True(t, ok)

	waitDone(t, job)
	assert.NoError(t, job.Err())
}

func TestWorker_JobFailureIsObservableOnCompletion(t *testing.T) {
	wantErr := errors.New("github api error")
	w := New(&stubRefresher{err: wantErr}, sl.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	job, ok := w.Trigger("moon")
	require.True(t, ok)

	waitDone(t, job)
	assert.ErrorIs(t, job.Err(), wantErr)
}

func TestWorker_SingleSlotRejectsConcurrentTriggers(t *testing.T) {
	refresher := &stubRefresher{
		block:   make(chan struct{}),
		started: make(chan string, 2),
	}
	w := New(refresher, sl.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	// First job is picked up and blocks inside Refresh.
	first, ok := w.Trigger("moon")
	require.True(t, ok)
	require.Equal(t, "moon", <-refresher.started)

	// Second occupies the single queue slot.
	second, ok := w.Trigger("moon")
	require.True(t, ok)

	// Third has nowhere to go.
	third, ok := w.Trigger("moon")
	assert.False(t, ok)
	assert.Nil(t, third)

	close(refresher.block)
	waitDone(t, first)
	waitDone(t, second)
}

func TestWorker_ServeStopsOnContextCancel(t *testing.T) {
	w := New(&stubRefresher{}, sl.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop on cancellation")
	}
}
