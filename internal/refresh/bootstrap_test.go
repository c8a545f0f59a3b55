package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clawbot-dashboard/internal/logger"
)

type bootstrapHarness struct {
	boot    *Bootstrapper
	ctrl    *Controller
	fetcher *stubFetcher
	tickers *fakeTickers
	view    *countingView
	cancel  context.CancelFunc
	done    chan error
}

func startBootstrap(t *testing.T, ready <-chan struct{}) *bootstrapHarness {
	t.Helper()
	h := &bootstrapHarness{fetcher: &stubFetcher{}, tickers: &fakeTickers{}, view: &countingView{}, done: make(chan error, 1)}
	var err error
	h.ctrl, err = New(h.fetcher, h.view, WithLogger(logger.Discard()), WithTickerFactory(h.tickers.New))
	require.NoError(t, err)
	h.boot, err = NewBootstrapper(h.ctrl, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.boot.Run(ctx, ready) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestBootstrapWaitsForReadiness(t *testing.T) {
	ready := make(chan struct{})
	h := startBootstrap(t, ready)

	assert.Never(t, func() bool { return h.fetcher.calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.False(t, h.boot.Attached())

	close(ready)
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), h.fetcher.calls.Load())
	assert.Equal(t, int64(1), h.view.cycles.Load())
	assert.True(t, h.ctrl.IsActive())
}

func TestBootstrapRunsImmediatelyWhenAlreadyReady(t *testing.T) {
	h := startBootstrap(t, closedChan())

	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, StateScheduled, h.ctrl.State())
	assert.Equal(t, 1, h.tickers.created())
}

func TestTriggerBeforeAttachIsRejected(t *testing.T) {
	h := startBootstrap(t, make(chan struct{}))

	assert.ErrorIs(t, h.boot.Trigger(context.Background()), ErrNotAttached)
	assert.ErrorIs(t, h.boot.Visibility(context.Background(), true), ErrNotAttached)
}

func TestManualTriggerRefreshesAndResetsCadence(t *testing.T) {
	h := startBootstrap(t, closedChan())
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)
	first := h.tickers.latest()

	require.NoError(t, h.boot.Trigger(context.Background()))

	require.Eventually(t, func() bool { return h.view.cycles.Load() == 2 && h.tickers.created() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, first.stopped.Load())
	assert.Equal(t, 1, h.tickers.active())
}

func TestVisibilityListener(t *testing.T) {
	h := startBootstrap(t, closedChan())
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.boot.Visibility(context.Background(), true))
	require.Eventually(t, func() bool { return h.ctrl.State() == StatePaused }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.boot.Visibility(context.Background(), false))
	require.Eventually(t, func() bool { return h.ctrl.State() == StateScheduled }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), h.view.cycles.Load())
}

func TestRunStopsOnCancelAndClosesController(t *testing.T) {
	h := startBootstrap(t, closedChan())
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)

	h.cancel()
	select {
	case err := <-h.done:
		assert.NoError(t, err)
		h.done <- err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, h.ctrl.IsActive())
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestListenersRejectEventsAfterRun(t *testing.T) {
	h := startBootstrap(t, closedChan())
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)

	h.cancel()
	err := <-h.done
	require.NoError(t, err)
	h.done <- err
	assert.False(t, h.boot.Attached())

	returned := make(chan [2]error, 1)
	go func() {
		returned <- [2]error{
			h.boot.Trigger(context.Background()),
			h.boot.Visibility(context.Background(), true),
		}
	}()
	select {
	case errs := <-returned:
		assert.ErrorIs(t, errs[0], ErrStopped)
		assert.ErrorIs(t, errs[1], ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("listener calls blocked after Run returned")
	}
}

func TestListenersRejectEventsWhenCancelledBeforeReady(t *testing.T) {
	h := startBootstrap(t, make(chan struct{}))
	h.cancel()
	err := <-h.done
	assert.ErrorIs(t, err, context.Canceled)
	h.done <- err

	assert.ErrorIs(t, h.boot.Trigger(context.Background()), ErrStopped)
}

func TestRunTwiceIsRejected(t *testing.T) {
	h := startBootstrap(t, closedChan())
	require.Eventually(t, h.boot.Attached, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, h.boot.Run(context.Background(), closedChan()), ErrAlreadyRunning)
}

func TestNewBootstrapperRequiresController(t *testing.T) {
	_, err := NewBootstrapper(nil, nil)
	assert.EqualError(t, err, "controller is required")
}
