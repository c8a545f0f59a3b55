package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	ErrNotAttached    = errors.New("dashboard listeners not attached")
	ErrAlreadyRunning = errors.New("bootstrapper already running")
	ErrStopped        = errors.New("dashboard listeners stopped")
)

// Bootstrapper performs the first refresh once the render targets exist and
// then listens for manual refresh triggers and visibility changes.
type Bootstrapper struct {
	ctrl       *Controller
	logger     *slog.Logger
	triggers   chan struct{}
	visibility chan bool
	attached   chan struct{}
	stopped    chan struct{}
	running    atomic.Bool
	wg         sync.WaitGroup
}

// NewBootstrapper wires a bootstrapper to ctrl.
func NewBootstrapper(ctrl *Controller, logger *slog.Logger) (*Bootstrapper, error) {
	if ctrl == nil {
		return nil, errors.New("controller is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{
		ctrl:       ctrl,
		logger:     logger,
		triggers:   make(chan struct{}),
		visibility: make(chan bool),
		attached:   make(chan struct{}),
		stopped:    make(chan struct{}),
	}, nil
}

// Run waits for ready, refreshes once, arms the timer and then serves
// listener events until ctx is done. A ready channel that is already closed
// lets Run proceed immediately. The controller is closed on return.
func (b *Bootstrapper) Run(ctx context.Context, ready <-chan struct{}) error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer b.ctrl.Close()
	defer close(b.stopped)

	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.logger.Info("initializing dashboard", "interval", b.ctrl.Interval())
	b.ctrl.runCycle(ctx, TriggerInitial)
	b.ctrl.Start()
	close(b.attached)

	for {
		select {
		case <-ctx.Done():
			b.wg.Wait()
			return nil
		case <-b.triggers:
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.ctrl.ManualRefresh(ctx)
			}()
		case hidden := <-b.visibility:
			b.logger.Debug("dashboard visibility changed", "hidden", hidden)
			b.ctrl.SetHidden(hidden)
		}
	}
}

// Attached reports whether listeners are being served.
func (b *Bootstrapper) Attached() bool {
	select {
	case <-b.stopped:
		return false
	default:
	}
	select {
	case <-b.attached:
		return true
	default:
		return false
	}
}

func (b *Bootstrapper) accepting() error {
	select {
	case <-b.stopped:
		return ErrStopped
	default:
	}
	if !b.Attached() {
		return ErrNotAttached
	}
	return nil
}

// Trigger requests a manual refresh. Manual refreshes run concurrently
// with each other and with the timer.
func (b *Bootstrapper) Trigger(ctx context.Context) error {
	if err := b.accepting(); err != nil {
		return err
	}
	select {
	case b.triggers <- struct{}{}:
		return nil
	case <-b.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Visibility reports that the page became hidden or visible.
func (b *Bootstrapper) Visibility(ctx context.Context, hidden bool) error {
	if err := b.accepting(); err != nil {
		return err
	}
	select {
	case b.visibility <- hidden:
		return nil
	case <-b.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
