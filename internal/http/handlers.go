package http

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"strconv"
	"time"

	"clawbot-dashboard/internal/dashboard"
	"clawbot-dashboard/internal/model"
	"clawbot-dashboard/internal/refresh"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	maxVisibilityBody   = 1 << 10
)

type visibilityRequest struct {
	Hidden *bool `json:"hidden"`
}

type statusResponse struct {
	TenantID      string             `json:"tenant_id"`
	State         refresh.State      `json:"state"`
	TimerActive   bool               `json:"timer_active"`
	IntervalSec   float64            `json:"interval_seconds"`
	Ready         bool               `json:"ready"`
	Attached      bool               `json:"attached"`
	LastCycle     *model.CycleRecord `json:"last_cycle,omitempty"`
	StatsUpdated  *time.Time         `json:"stats_updated_at,omitempty"`
	DocumentRev   uint64             `json:"document_version"`
	UptimeSeconds int64              `json:"uptime_seconds"`
}

func (s *Server) healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) readyHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	if !s.doc.IsReady() {
		writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
			"status":  "not ready",
			"missing": s.doc.Missing(dashboard.RequiredElements),
		})
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (s *Server) panelsHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, nethttp.StatusOK, s.doc.Snapshot())
}

func (s *Server) refreshHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := s.refresher.Trigger(r.Context()); err != nil {
		if errors.Is(err, refresh.ErrNotAttached) {
			writeError(w, nethttp.StatusServiceUnavailable, "dashboard is still initializing")
			return
		}
		if errors.Is(err, refresh.ErrStopped) {
			writeError(w, nethttp.StatusServiceUnavailable, "dashboard is shutting down")
			return
		}
		s.logger.WarnContext(r.Context(), "manual refresh not delivered", "error", err)
		writeError(w, nethttp.StatusServiceUnavailable, "refresh not accepted")
		return
	}
	writeJSON(w, nethttp.StatusAccepted, map[string]any{"status": "accepted"})
}

func (s *Server) visibilityHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req visibilityRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxVisibilityBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.Hidden == nil {
		writeError(w, nethttp.StatusBadRequest, `body must be {"hidden": true|false}`)
		return
	}

	if err := s.refresher.Visibility(r.Context(), *req.Hidden); err != nil {
		if errors.Is(err, refresh.ErrNotAttached) {
			writeError(w, nethttp.StatusServiceUnavailable, "dashboard is still initializing")
			return
		}
		if errors.Is(err, refresh.ErrStopped) {
			writeError(w, nethttp.StatusServiceUnavailable, "dashboard is shutting down")
			return
		}
		s.logger.WarnContext(r.Context(), "visibility change not delivered", "error", err)
		writeError(w, nethttp.StatusServiceUnavailable, "visibility change not accepted")
		return
	}
	writeJSON(w, nethttp.StatusAccepted, map[string]any{"status": "accepted", "hidden": *req.Hidden})
}

func (s *Server) statusHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	resp := statusResponse{
		TenantID:      s.tenantID,
		State:         s.status.State(),
		TimerActive:   s.status.IsActive(),
		IntervalSec:   s.status.Interval().Seconds(),
		Ready:         s.doc.IsReady(),
		Attached:      s.refresher.Attached(),
		LastCycle:     s.status.LastCycle(),
		DocumentRev:   s.doc.Snapshot().Version,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
	if s.stats != nil {
		if lkg := s.stats.LastKnownGood(); lkg != nil {
			at := lkg.UpdatedAt
			resp.StatsUpdated = &at
		}
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

func (s *Server) historyHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if s.history == nil {
		writeError(w, nethttp.StatusServiceUnavailable, "cycle history is disabled")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), defaultHistoryLimit, maxHistoryLimit)

	items, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "history query failed", "error", err)
		writeError(w, nethttp.StatusInternalServerError, "history query failed")
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
