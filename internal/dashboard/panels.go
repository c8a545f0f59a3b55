package dashboard

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"clawbot-dashboard/internal/format"
	"clawbot-dashboard/internal/model"
	"clawbot-dashboard/internal/render"
)

// LastKnownGood is the most recent compliance summary that was displayed.
type LastKnownGood struct {
	Stats     render.StatValues `json:"stats"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Panels writes rendered resources into their containers. Each method owns
// exactly one set of elements.
type Panels struct {
	doc    *Document
	fmt    *format.Formatter
	logger *slog.Logger

	mu        sync.RWMutex
	lastStats *LastKnownGood
	now       func() time.Time
}

type PanelsOption func(*Panels)

func WithLogger(logger *slog.Logger) PanelsOption {
	return func(p *Panels) {
		p.logger = logger
	}
}

// WithClock overrides the time source used for last-known-good bookkeeping.
func WithClock(now func() time.Time) PanelsOption {
	return func(p *Panels) {
		p.now = now
	}
}

// NewPanels binds renderers to doc.
func NewPanels(doc *Document, f *format.Formatter, opts ...PanelsOption) (*Panels, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	if f == nil {
		return nil, errors.New("formatter is required")
	}
	p := &Panels{doc: doc, fmt: f, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RenderSignals replaces the signals container.
func (p *Panels) RenderSignals(list *model.SignalList) {
	p.set(SignalsContainer, func() error {
		return p.doc.SetHTML(SignalsContainer, render.Signals(list, p.fmt))
	})
}

// RenderAuditLog replaces the audit container.
func (p *Panels) RenderAuditLog(log *model.AuditLog) {
	p.set(AuditContainer, func() error {
		return p.doc.SetHTML(AuditContainer, render.AuditLog(log, p.fmt))
	})
}

// UpdateStats overwrites the four counters. A nil summary leaves the
// previous values on display.
func (p *Panels) UpdateStats(summary *model.ComplianceSummary) {
	stats, ok := render.Stats(summary)
	if !ok {
		return
	}
	p.set("stats", func() error {
		return p.doc.SetTexts(map[string]string{
			TotalSignals:    stats.TotalSignals,
			PIIAnonymized:   stats.PIIAnonymized,
			AuditEntries:    stats.AuditEntries,
			CriticalUrgency: stats.CriticalUrgency,
		})
	})

	p.mu.Lock()
	p.lastStats = &LastKnownGood{Stats: stats, UpdatedAt: p.now()}
	p.mu.Unlock()
}

// SetLastUpdated shows t as the time of the last refresh.
func (p *Panels) SetLastUpdated(t time.Time) {
	p.set(LastUpdate, func() error { return p.doc.SetText(LastUpdate, p.fmt.Clock(t)) })
}

// LastKnownGood returns the stats currently on display, or nil if no
// compliance summary has been shown yet.
func (p *Panels) LastKnownGood() *LastKnownGood {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.lastStats == nil {
		return nil
	}
	cp := *p.lastStats
	return &cp
}

func (p *Panels) set(id string, write func() error) {
	if err := write(); err != nil {
		p.logger.Error("render target write failed", "element", id, "error", err)
	}
}
