package refresh

//go:generate mockgen -source=controller.go -destination=mocks/mocks.go -package=mocks Fetcher,View,Recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clawbot-dashboard/internal/metrics"
	"clawbot-dashboard/internal/model"
)

// DefaultInterval is the auto-refresh cadence.
const DefaultInterval = 10 * time.Second

// Fetcher reads the three dashboard resources. A nil result means the
// fetch failed; implementations never return errors.
type Fetcher interface {
	FetchSignals(ctx context.Context) *model.SignalList
	FetchAuditLog(ctx context.Context) *model.AuditLog
	FetchComplianceReport(ctx context.Context) *model.ComplianceSummary
}

// View receives the results of a cycle.
type View interface {
	RenderSignals(list *model.SignalList)
	RenderAuditLog(log *model.AuditLog)
	UpdateStats(summary *model.ComplianceSummary)
	SetLastUpdated(t time.Time)
}

// Recorder keeps cycle bookkeeping.
type Recorder interface {
	Record(ctx context.Context, rec model.CycleRecord) error
}

// State of the refresh lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRefreshing State = "refreshing"
	StateScheduled  State = "scheduled"
	StatePaused     State = "paused"
)

// Trigger identifies what started a cycle.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerTimer   Trigger = "timer"
	TriggerManual  Trigger = "manual"
	TriggerDirect  Trigger = "direct"
)

type armedTimer struct {
	ticker Ticker
	done   chan struct{}
}

// Controller runs refresh cycles and owns the auto-refresh timer. One
// controller serves one dashboard instance.
type Controller struct {
	fetcher   Fetcher
	view      View
	recorder  Recorder
	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	timer    *armedTimer
	paused   bool
	closed   bool
	inFlight int
	last     *model.CycleRecord
}

type Option func(*Controller)

func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithTickerFactory(f TickerFactory) Option {
	return func(c *Controller) {
		if f != nil {
			c.newTicker = f
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// New returns an idle controller.
func New(fetcher Fetcher, view View, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if view == nil {
		return nil, errors.New("view is required")
	}
	c := &Controller{
		fetcher:   fetcher,
		view:      view,
		interval:  DefaultInterval,
		newTicker: NewTimeTicker,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseCtx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// Interval returns the auto-refresh cadence.
func (c *Controller) Interval() time.Duration { return c.interval }

// RefreshCycle fetches all three resources concurrently, waits for every
// fetch to settle and then renders each result, absent or not.
func (c *Controller) RefreshCycle(ctx context.Context) model.RefreshResult {
	return c.runCycle(ctx, TriggerDirect)
}

// ManualRefresh runs a cycle immediately and then re-arms the timer so the
// next automatic tick is a full interval away.
func (c *Controller) ManualRefresh(ctx context.Context) model.RefreshResult {
	res := c.runCycle(ctx, TriggerManual)
	c.Start()
	return res
}

// Start replaces any armed timer with a fresh one. There is never more than
// one armed timer.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.disarmLocked()

	at := &armedTimer{ticker: c.newTicker(c.interval), done: make(chan struct{})}
	c.timer = at
	c.paused = false
	c.wg.Add(1)
	go c.loop(at)
	c.metrics.SetTimerActive(true)
}

// Stop disarms the timer. Cycles already running are not interrupted.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return
	}
	c.disarmLocked()
	c.paused = true
	c.metrics.SetTimerActive(false)
}

// SetHidden pauses auto-refresh while the page is hidden and re-arms it
// when the page is visible again. Becoming visible does not force a cycle.
func (c *Controller) SetHidden(hidden bool) {
	if hidden {
		c.Stop()
		return
	}
	c.Start()
}

// IsActive reports whether the timer is armed.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// State reports the current lifecycle state. A running cycle takes
// precedence over the timer state it will return to.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inFlight > 0:
		return StateRefreshing
	case c.timer != nil:
		return StateScheduled
	case c.paused:
		return StatePaused
	default:
		return StateIdle
	}
}

// LastCycle returns the bookkeeping of the most recently finished cycle.
func (c *Controller) LastCycle() *model.CycleRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	cp := *c.last
	return &cp
}

// Close tears the controller down: the timer is disarmed for good, timer
// driven fetches are cancelled and Close waits for the timer goroutine.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.disarmLocked()
	c.paused = false
	c.mu.Unlock()

	c.metrics.SetTimerActive(false)
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) disarmLocked() {
	if c.timer == nil {
		return
	}
	c.timer.ticker.Stop()
	close(c.timer.done)
	c.timer = nil
}

func (c *Controller) loop(at *armedTimer) {
	defer c.wg.Done()
	for {
		select {
		case <-at.done:
			return
		case <-at.ticker.C():
			c.mu.Lock()
			current := c.timer == at
			c.mu.Unlock()
			if !current {
				return
			}
			c.runCycle(c.baseCtx, TriggerTimer)
		}
	}
}

func (c *Controller) runCycle(ctx context.Context, trigger Trigger) model.RefreshResult {
	id := uuid.NewString()
	start := c.now()

	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
	c.metrics.CycleStarted()
	c.logger.DebugContext(ctx, "refreshing dashboard", "cycle_id", id, "trigger", trigger)

	var (
		res model.RefreshResult
		g   errgroup.Group
	)
	g.Go(func() error {
		res.Signals = c.fetcher.FetchSignals(ctx)
		return nil
	})
	g.Go(func() error {
		res.AuditLog = c.fetcher.FetchAuditLog(ctx)
		return nil
	})
	g.Go(func() error {
		res.Compliance = c.fetcher.FetchComplianceReport(ctx)
		return nil
	})
	_ = g.Wait()

	c.view.RenderSignals(res.Signals)
	c.view.RenderAuditLog(res.AuditLog)
	c.view.UpdateStats(res.Compliance)
	finished := c.now()
	c.view.SetLastUpdated(finished)

	rec := model.CycleRecord{
		ID:           id,
		Trigger:      string(trigger),
		StartedAt:    start,
		Duration:     finished.Sub(start),
		SignalsOK:    res.Signals != nil,
		AuditLogOK:   res.AuditLog != nil,
		ComplianceOK: res.Compliance != nil,
		SignalCount:  res.Signals.Len(),
		AuditCount:   res.AuditLog.Len(),
	}

	c.mu.Lock()
	c.inFlight--
	c.last = &rec
	c.mu.Unlock()

	absent := res.Absent()
	outcome := cycleOutcome(len(absent))
	c.metrics.CycleFinished(string(trigger), outcome, rec.Duration, finished)
	if len(absent) > 0 {
		c.logger.WarnContext(ctx, "dashboard refreshed with missing data",
			"cycle_id", id, "trigger", trigger, "absent", absent, "duration", rec.Duration)
	} else {
		c.logger.InfoContext(ctx, "dashboard refreshed",
			"cycle_id", id, "trigger", trigger, "signals", rec.SignalCount, "audit_entries", rec.AuditCount, "duration", rec.Duration)
	}

	if c.recorder != nil {
		if err := c.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
			c.logger.ErrorContext(ctx, "failed to record refresh cycle", "cycle_id", id, "error", err)
		}
	}
	return res
}

func cycleOutcome(absent int) string {
	switch absent {
	case 0:
		return "complete"
	case 3:
		return "empty"
	default:
		return "partial"
	}
}
