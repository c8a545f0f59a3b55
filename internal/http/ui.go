package http

import (
	"bytes"
	"html/template"
	nethttp "net/http"
)

var dashboardPage = template.Must(template.New("dashboard").Parse(dashboardHTML))

type pageData struct {
	TenantID string
	Version  uint64
	Panels   map[string]template.HTML
}

func (s *Server) dashboardHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	snap := s.doc.Snapshot()
	var buf bytes.Buffer
	if err := dashboardPage.Execute(&buf, pageData{
		TenantID: s.tenantID,
		Version:  snap.Version,
		Panels:   snap.Elements,
	}); err != nil {
		s.logger.ErrorContext(r.Context(), "render dashboard page", "error", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>ClawBot Compliance Dashboard</title>
  <style>
    :root {
      --brand: #0e5d8f;
      --bg: #f7f7f7;
      --paper: #fff;
      --text: #333;
      --muted: #777;
      --line: #ddd;
      --critical: #a94442;
      --high: #c7661c;
      --medium: #8a6d3b;
      --low: #3c763d;
    }
    * { box-sizing: border-box; }
    body { margin: 0; font-family: "Open Sans", Arial, sans-serif; background: var(--bg); color: var(--text); }
    header { display: flex; align-items: center; justify-content: space-between; padding: 12px 24px; background: var(--brand); color: #fff; }
    header h1 { font-size: 20px; margin: 0; font-weight: 600; }
    header .meta { font-size: 13px; opacity: .9; }
    button#refresh-btn { border: 1px solid #fff; background: transparent; color: #fff; padding: 6px 14px; border-radius: 3px; cursor: pointer; }
    button#refresh-btn:disabled { opacity: .5; cursor: default; }
    main { padding: 20px 24px; display: grid; gap: 20px; }
    .stats { display: grid; grid-template-columns: repeat(4, 1fr); gap: 12px; }
    .stat { background: var(--paper); border: 1px solid var(--line); padding: 14px; }
    .stat .value { font-size: 28px; font-weight: 700; }
    .stat .label { font-size: 12px; color: var(--muted); text-transform: uppercase; }
    .panels { display: grid; grid-template-columns: 2fr 1fr; gap: 20px; }
    section { background: var(--paper); border: 1px solid var(--line); padding: 14px; }
    section h2 { font-size: 16px; margin: 0 0 10px; }
    .loading { color: var(--muted); font-style: italic; padding: 10px 0; }
    .signal-card, .audit-entry { border-top: 1px solid var(--line); padding: 10px 0; }
    .signal-header { display: flex; justify-content: space-between; font-size: 13px; }
    .signal-id { font-family: monospace; }
    .signal-badges { margin: 6px 0; }
    .badge { display: inline-block; font-size: 11px; padding: 2px 6px; border-radius: 3px; background: #eee; margin-right: 4px; }
    .urgency-critical { background: var(--critical); color: #fff; }
    .urgency-high { background: var(--high); color: #fff; }
    .urgency-medium { background: var(--medium); color: #fff; }
    .urgency-low { background: var(--low); color: #fff; }
    .signal-time, .audit-time, .audit-details { color: var(--muted); font-size: 12px; }
    .audit-action { font-weight: 600; }
    @media (max-width: 900px) { .stats { grid-template-columns: repeat(2, 1fr); } .panels { grid-template-columns: 1fr; } }
  </style>
</head>
<body data-version="{{.Version}}">
  <header>
    <h1>ClawBot Compliance Dashboard</h1>
    <div class="meta">Tenant <strong>{{.TenantID}}</strong> &middot; Last update: <span id="last-update">{{index .Panels "last-update"}}</span></div>
    <button id="refresh-btn" type="button">{{index .Panels "refresh-btn"}}</button>
  </header>
  <main>
    <div class="stats">
      <div class="stat"><div class="value" id="total-signals">{{index .Panels "total-signals"}}</div><div class="label">Total signals</div></div>
      <div class="stat"><div class="value" id="pii-anonymized">{{index .Panels "pii-anonymized"}}</div><div class="label">PII anonymized</div></div>
      <div class="stat"><div class="value" id="audit-entries">{{index .Panels "audit-entries"}}</div><div class="label">Audit entries</div></div>
      <div class="stat"><div class="value" id="critical-urgency">{{index .Panels "critical-urgency"}}</div><div class="label">Critical urgency</div></div>
    </div>
    <div class="panels">
      <section>
        <h2>Recent signals</h2>
        <div id="signals-container">{{index .Panels "signals-container"}}</div>
      </section>
      <section>
        <h2>Audit log</h2>
        <div id="audit-container">{{index .Panels "audit-container"}}</div>
      </section>
    </div>
  </main>
  <script>
  (function () {
    var api = "/api/v1/dashboard";
    var version = Number(document.body.dataset.version || 0);
    var pollMs = 2000;
    var timer = null;

    function paint(snap) {
      if (!snap || snap.version === version) { return; }
      version = snap.version;
      Object.keys(snap.panels || {}).forEach(function (id) {
        var el = document.getElementById(id);
        if (el) { el.innerHTML = snap.panels[id]; }
      });
    }

    function poll() {
      fetch(api + "/panels", { cache: "no-store" })
        .then(function (r) { return r.ok ? r.json() : null; })
        .then(paint)
        .catch(function () {});
    }

    function schedule() {
      if (timer) { clearInterval(timer); }
      timer = document.hidden ? null : setInterval(poll, pollMs);
    }

    function post(path, body) {
      return fetch(api + path, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: body ? JSON.stringify(body) : null
      });
    }

    document.getElementById("refresh-btn").addEventListener("click", function () {
      var btn = this;
      btn.disabled = true;
      post("/refresh").finally(function () {
        btn.disabled = false;
        setTimeout(poll, 500);
      });
    });

    document.addEventListener("visibilitychange", function () {
      post("/visibility", { hidden: document.hidden }).catch(function () {});
      schedule();
      if (!document.hidden) { poll(); }
    });

    schedule();
  })();
  </script>
</body>
</html>
`
