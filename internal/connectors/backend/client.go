package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clawbot-dashboard/internal/metrics"
	"clawbot-dashboard/internal/model"
)

const (
	DefaultSignalsLimit = 20
	DefaultAuditLimit   = 10
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Resource model.Resource
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend status=%d body=%s", e.Resource, e.Status, e.Body)
}

// Client reads the three dashboard resources for a single tenant. Its Fetch
// methods never return errors: a failed fetch is logged and yields nil.
type Client struct {
	endpoint     string
	tenantID     string
	signalsLimit int
	auditLimit   int
	http         *http.Client
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLimits overrides the per-resource result limits. Non-positive values
// keep the defaults.
func WithLimits(signals, audit int) Option {
	return func(c *Client) {
		if signals > 0 {
			c.signalsLimit = signals
		}
		if audit > 0 {
			c.auditLimit = audit
		}
	}
}

// NewClient returns a client for the API rooted at endpoint, e.g.
// http://clawbot-api:8000/api/v1. A zero timeout leaves requests bounded
// only by the caller's context.
func NewClient(endpoint, tenantID string, timeout time.Duration, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("backend endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse backend endpoint: %w", err)
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, errors.New("tenant id is required")
	}

	c := &Client{
		endpoint:     endpoint,
		tenantID:     tenantID,
		signalsLimit: DefaultSignalsLimit,
		auditLimit:   DefaultAuditLimit,
		http:         &http.Client{Timeout: timeout},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchSignals returns the most recent signals, or nil on failure. A JSON
// null body counts as absent.
func (c *Client) FetchSignals(ctx context.Context) *model.SignalList {
	var out *model.SignalList
	if !c.fetch(ctx, model.ResourceSignals, "/signals", c.signalsLimit, &out) {
		return nil
	}
	return out
}

// FetchAuditLog returns the most recent audit entries, or nil on failure.
func (c *Client) FetchAuditLog(ctx context.Context) *model.AuditLog {
	var out *model.AuditLog
	if !c.fetch(ctx, model.ResourceAuditLog, "/audit-log", c.auditLimit, &out) {
		return nil
	}
	return out
}

// FetchComplianceReport returns the tenant compliance summary, or nil on
// failure.
func (c *Client) FetchComplianceReport(ctx context.Context) *model.ComplianceSummary {
	var out *model.ComplianceSummary
	if !c.fetch(ctx, model.ResourceCompliance, "/compliance/report", 0, &out) {
		return nil
	}
	return out
}

func (c *Client) fetch(ctx context.Context, resource model.Resource, path string, limit int, out any) bool {
	start := time.Now()
	err := c.getJSON(ctx, resource, path, limit, out)
	c.metrics.ObserveFetch(string(resource), time.Since(start))
	if err == nil {
		return true
	}

	reason := "transport"
	attrs := []any{"resource", resource, "tenant_id", c.tenantID, "error", err}
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		reason = "status"
		attrs = append(attrs, "status", statusErr.Status)
	case errors.Is(err, errDecode):
		reason = "decode"
	}
	c.metrics.IncrementFetchFailure(string(resource), reason)
	c.logger.ErrorContext(ctx, "error fetching "+string(resource), attrs...)
	return false
}

var errDecode = errors.New("decode response")

func (c *Client) getJSON(ctx context.Context, resource model.Resource, path string, limit int, out any) error {
	u, err := url.Parse(c.endpoint + path)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("tenant_id", c.tenantID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		blob, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Resource: resource, Status: resp.StatusCode, Body: strings.TrimSpace(string(blob))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errDecode, err)
	}
	return nil
}
