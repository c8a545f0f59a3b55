package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clawbot-dashboard/internal/model"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

// tick hands a tick to the timer goroutine and fails if nobody takes it.
func (t *fakeTicker) tick(tb testing.TB) {
	tb.Helper()
	select {
	case t.ch <- time.Now():
	case <-time.After(2 * time.Second):
		tb.Fatal("tick was not consumed")
	}
}

// tryTick offers a tick briefly; a stopped timer may or may not take it.
func (t *fakeTicker) tryTick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(20 * time.Millisecond):
		return false
	}
}

type fakeTickers struct {
	mu        sync.Mutex
	intervals []time.Duration
	tickers   []*fakeTicker
}

func (f *fakeTickers) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.intervals = append(f.intervals, d)
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeTickers) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *fakeTickers) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.stopped.Load() {
			n++
		}
	}
	return n
}

func (f *fakeTickers) at(i int) *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[i]
}

func (f *fakeTickers) latest() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

type stubFetcher struct {
	calls      atomic.Int64
	signals    *model.SignalList
	audit      *model.AuditLog
	compliance *model.ComplianceSummary
	// gate, when set, blocks FetchSignals until closed.
	gate chan struct{}
}

func (f *stubFetcher) FetchSignals(context.Context) *model.SignalList {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.signals
}

func (f *stubFetcher) FetchAuditLog(context.Context) *model.AuditLog {
	return f.audit
}

func (f *stubFetcher) FetchComplianceReport(context.Context) *model.ComplianceSummary {
	return f.compliance
}

type countingView struct {
	cycles atomic.Int64
}

func (v *countingView) RenderSignals(*model.SignalList)      {}
func (v *countingView) RenderAuditLog(*model.AuditLog)       {}
func (v *countingView) UpdateStats(*model.ComplianceSummary) {}
func (v *countingView) SetLastUpdated(time.Time)             { v.cycles.Add(1) }

type recorderFunc func(context.Context, model.CycleRecord) error

func (f recorderFunc) Record(ctx context.Context, rec model.CycleRecord) error { return f(ctx, rec) }
