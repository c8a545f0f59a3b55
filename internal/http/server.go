package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clawbot-dashboard/internal/config"
	"clawbot-dashboard/internal/dashboard"
	"clawbot-dashboard/internal/metrics"
	"clawbot-dashboard/internal/model"
	"clawbot-dashboard/internal/refresh"
)

// Refresher forwards viewer events to the refresh lifecycle.
type Refresher interface {
	Attached() bool
	Trigger(ctx context.Context) error
	Visibility(ctx context.Context, hidden bool) error
}

// StatusSource reports the refresh controller state.
type StatusSource interface {
	State() refresh.State
	IsActive() bool
	Interval() time.Duration
	LastCycle() *model.CycleRecord
}

// StatsSource exposes the last compliance stats that were displayed.
type StatsSource interface {
	LastKnownGood() *dashboard.LastKnownGood
}

// HistoryReader lists recorded refresh cycles, newest first.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]model.CycleRecord, error)
}

// Deps are the collaborators served over HTTP. History, Stats and Metrics
// are optional.
type Deps struct {
	Document  *dashboard.Document
	Refresher Refresher
	Status    StatusSource
	Stats     StatsSource
	History   HistoryReader
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Server wraps an HTTP server and route handlers.
type Server struct {
	httpServer *nethttp.Server
	router     chi.Router
	doc        *dashboard.Document
	refresher  Refresher
	status     StatusSource
	stats      StatsSource
	history    HistoryReader
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tenantID   string
	startedAt  time.Time
}

// NewServer creates a configured HTTP server with the dashboard endpoints.
func NewServer(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Document == nil {
		return nil, errors.New("document is required")
	}
	if deps.Refresher == nil {
		return nil, errors.New("refresher is required")
	}
	if deps.Status == nil {
		return nil, errors.New("status source is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		doc:       deps.Document,
		refresher: deps.Refresher,
		status:    deps.Status,
		stats:     deps.Stats,
		history:   deps.History,
		metrics:   deps.Metrics,
		logger:    logger,
		tenantID:  cfg.TenantID,
		startedAt: time.Now().UTC(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observabilityMiddleware)

	r.Get("/", s.dashboardHandler)
	r.Get("/favicon.ico", faviconHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/ready", s.readyHandler)
	r.Handle("/metrics", s.metrics.Handler())
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/panels", s.panelsHandler)
		r.Post("/refresh", s.refreshHandler)
		r.Post("/visibility", s.visibilityHandler)
		r.Get("/status", s.statusHandler)
		r.Get("/history", s.historyHandler)
	})
	s.router = r

	s.httpServer = &nethttp.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() nethttp.Handler { return s.router }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and closes the history store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if c, ok := s.history.(io.Closer); ok {
		_ = c.Close()
	}
	return err
}

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w nethttp.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
