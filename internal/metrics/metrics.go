package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one dashboard instance. All
// methods are safe to call on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP surface served to browsers
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Backend fetches by resource
	FetchDuration *prometheus.HistogramVec
	FetchFailures *prometheus.CounterVec

	// Refresh cycles by trigger and outcome
	Cycles         *prometheus.CounterVec
	CycleDuration  prometheus.Histogram
	CyclesInFlight prometheus.Gauge
	TimerActive    prometheus.Gauge
	LastCycle      prometheus.Gauge
}

// New creates a Metrics instance registered on its own registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clawbot_dashboard_http_requests_total",
			Help: "Total HTTP requests handled by the dashboard.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clawbot_dashboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled by the dashboard.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clawbot_dashboard_fetch_duration_seconds",
			Help:    "Duration of backend fetches by resource.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clawbot_dashboard_fetch_failures_total",
			Help: "Backend fetches that yielded no data, by resource and reason.",
		}, []string{"resource", "reason"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clawbot_dashboard_refresh_cycles_total",
			Help: "Refresh cycles by trigger and outcome (complete, partial, empty).",
		}, []string{"trigger", "outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clawbot_dashboard_refresh_cycle_duration_seconds",
			Help:    "Duration of a full fetch-then-render refresh cycle.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CyclesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clawbot_dashboard_refresh_cycles_in_flight",
			Help: "Refresh cycles currently running.",
		}),
		TimerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clawbot_dashboard_refresh_timer_active",
			Help: "1 while the auto-refresh timer is armed.",
		}),
		LastCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clawbot_dashboard_last_refresh_timestamp_seconds",
			Help: "Unix time of the last completed refresh cycle.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.FetchDuration, m.FetchFailures,
		m.Cycles, m.CycleDuration, m.CyclesInFlight, m.TimerActive, m.LastCycle,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveFetch(resource string, d time.Duration) {
	if m != nil {
		m.FetchDuration.WithLabelValues(resource).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementFetchFailure(resource, reason string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(resource, reason).Inc()
	}
}

func (m *Metrics) CycleStarted() {
	if m != nil {
		m.CyclesInFlight.Inc()
	}
}

// CycleFinished records a completed cycle.
func (m *Metrics) CycleFinished(trigger, outcome string, d time.Duration, at time.Time) {
	if m != nil {
		m.CyclesInFlight.Dec()
		m.Cycles.WithLabelValues(trigger, outcome).Inc()
		m.CycleDuration.Observe(d.Seconds())
		m.LastCycle.Set(float64(at.Unix()))
	}
}

func (m *Metrics) SetTimerActive(active bool) {
	if m != nil {
		if active {
			m.TimerActive.Set(1)
		} else {
			m.TimerActive.Set(0)
		}
	}
}
