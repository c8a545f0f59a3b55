package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clawbot-dashboard/internal/config"
	"clawbot-dashboard/internal/connectors/backend"
	"clawbot-dashboard/internal/dashboard"
	"clawbot-dashboard/internal/format"
	"clawbot-dashboard/internal/logger"
	"clawbot-dashboard/internal/refresh"
)

// Wires the real refresh stack behind the server and drives it through the
// endpoints the viewer page uses.
func TestViewerEventsDriveController(t *testing.T) {
	var signalCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/signals":
			signalCalls.Add(1)
			_, _ = w.Write([]byte(`{"total":1,"signals":[{"signal_id":"S1","urgency":"low","sentiment":"neutral","category":"general","anonymized_content":"hello","created_at":1700000000000}]}`))
		case "/audit-log":
			_, _ = w.Write([]byte(`{"total":0,"entries":[]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(api.Close)

	log := logger.Discard()
	client, err := backend.NewClient(api.URL, "acme", time.Second, backend.WithLogger(log))
	require.NoError(t, err)

	doc := dashboard.NewDashboardDocument()
	panels, err := dashboard.NewPanels(doc, format.Must("de-AT", time.UTC), dashboard.WithLogger(log))
	require.NoError(t, err)
	var armed atomic.Int32
	ctrl, err := refresh.New(client, panels,
		refresh.WithInterval(time.Hour),
		refresh.WithLogger(log),
		refresh.WithTickerFactory(func(d time.Duration) refresh.Ticker {
			armed.Add(1)
			return refresh.NewTimeTicker(d)
		}),
	)
	require.NoError(t, err)
	boot, err := refresh.NewBootstrapper(ctrl, log)
	require.NoError(t, err)

	srv, err := NewServer(config.Config{TenantID: "acme"}, Deps{
		Document:  doc,
		Refresher: boot,
		Status:    ctrl,
		Stats:     panels,
		Logger:    log,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	post := func(path, body string) int {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusServiceUnavailable, post("/api/v1/dashboard/refresh", ""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- boot.Run(ctx, doc.Ready()) }()
	require.NoError(t, doc.MarkReady())

	require.Eventually(t, boot.Attached, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, signalCalls.Load())
	assert.Equal(t, refresh.StateScheduled, ctrl.State())

	signals, _ := doc.Get(dashboard.SignalsContainer)
	assert.Contains(t, string(signals), `data-signal-id="S1"`)
	stats, _ := doc.Get(dashboard.TotalSignals)
	assert.EqualValues(t, "-", stats)

	assert.Equal(t, http.StatusAccepted, post("/api/v1/dashboard/refresh", ""))
	// a manual refresh re-arms the timer once its cycle is done
	require.Eventually(t, func() bool { return armed.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, signalCalls.Load())

	assert.Equal(t, http.StatusAccepted, post("/api/v1/dashboard/visibility", `{"hidden":true}`))
	require.Eventually(t, func() bool { return ctrl.State() == refresh.StatePaused }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusAccepted, post("/api/v1/dashboard/visibility", `{"hidden":false}`))
	require.Eventually(t, func() bool { return armed.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, ctrl.IsActive())
	// becoming visible does not force a refresh
	assert.EqualValues(t, 2, signalCalls.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrapper did not stop")
	}
	assert.False(t, ctrl.IsActive())

	// the server outlives the bootstrapper during shutdown
	assert.Equal(t, http.StatusServiceUnavailable, post("/api/v1/dashboard/refresh", ""))
}
