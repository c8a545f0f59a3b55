// Package render turns fetched dashboard resources into HTML fragments.
// Every function is pure: the same input always yields the same markup.
package render

import (
	"bytes"
	"html/template"
	"strconv"

	"clawbot-dashboard/internal/format"
	"clawbot-dashboard/internal/model"
)

const (
	NoSignals      = "No signals found"
	NoAuditEntries = "No audit entries found"
)

// Placeholder wraps a "no data" message in the loading container.
func Placeholder(msg string) template.HTML {
	var buf bytes.Buffer
	_ = placeholderTmpl.Execute(&buf, msg)
	return template.HTML(buf.String())
}

var placeholderTmpl = template.Must(template.New("placeholder").Parse(`<div class="loading">{{.}}</div>`))

var signalsTmpl = template.Must(template.New("signals").Parse(`{{range .}}
<div class="signal-card" data-signal-id="{{.ID}}">
  <div class="signal-header">
    <div class="signal-id">{{.ID}}</div>
  </div>
  <div class="signal-badges">
    <span class="badge urgency-{{.Urgency}}">{{.Urgency}}</span>
    <span class="badge sentiment-{{.Sentiment}}">{{.Sentiment}}</span>
    <span class="badge category">{{.Category}}</span>
  </div>
  <div class="signal-content">{{.Content}}</div>
  <div class="signal-meta">{{.Created}}</div>
</div>{{end}}`))

var auditTmpl = template.Must(template.New("audit").Parse(`{{range .}}
<div class="audit-entry">
  <div>
    <span class="audit-action">{{.Action}}</span>
    <span class="audit-details">{{if .SignalID}}Signal: {{.SignalID}}{{end}}{{if and .SignalID .Actor}} {{end}}{{if .Actor}}• Actor: {{.Actor}}{{end}}</span>
  </div>
  <div class="audit-time">{{.Time}}</div>
</div>{{end}}`))

type signalCard struct {
	ID        string
	Urgency   string
	Sentiment string
	Category  string
	Content   template.HTML
	Created   string
}

type auditRow struct {
	Action   string
	SignalID string
	Actor    string
	Time     string
}

// Signals renders one card per signal in the order given. Content is
// emitted verbatim: the backend anonymizes and sanitizes it.
func Signals(list *model.SignalList, f *format.Formatter) template.HTML {
	if list.Len() == 0 {
		return Placeholder(NoSignals)
	}
	cards := make([]signalCard, 0, len(list.Signals))
	for _, s := range list.Signals {
		cards = append(cards, signalCard{
			ID:        s.SignalID,
			Urgency:   s.Urgency.String(),
			Sentiment: s.Sentiment.String(),
			Category:  s.Category,
			Content:   template.HTML(s.AnonymizedContent),
			Created:   f.Timestamp(s.CreatedAt),
		})
	}
	return execute(signalsTmpl, cards)
}

// AuditLog renders one row per audit entry in the order given. Missing
// signal or actor references are left out.
func AuditLog(log *model.AuditLog, f *format.Formatter) template.HTML {
	if log.Len() == 0 {
		return Placeholder(NoAuditEntries)
	}
	rows := make([]auditRow, 0, len(log.Entries))
	for _, e := range log.Entries {
		rows = append(rows, auditRow{
			Action:   e.Action,
			SignalID: e.SignalID,
			Actor:    e.Actor,
			Time:     f.Timestamp(e.Timestamp),
		})
	}
	return execute(auditTmpl, rows)
}

// StatValues are the four scalar counters shown above the panels.
type StatValues struct {
	TotalSignals    string `json:"total_signals"`
	PIIAnonymized   string `json:"pii_anonymized"`
	AuditEntries    string `json:"audit_entries"`
	CriticalUrgency string `json:"critical_urgency"`
}

// Stats extracts display values from a compliance summary. ok is false for
// a nil summary, in which case nothing should be updated.
func Stats(summary *model.ComplianceSummary) (StatValues, bool) {
	if summary == nil {
		return StatValues{}, false
	}
	return StatValues{
		TotalSignals:    strconv.Itoa(summary.TotalSignals),
		PIIAnonymized:   strconv.Itoa(summary.PIIAnonymized),
		AuditEntries:    strconv.Itoa(summary.AuditEntries),
		CriticalUrgency: strconv.Itoa(summary.CriticalCount()),
	}, true
}

func execute(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and only read plain fields.
		panic(err)
	}
	return template.HTML(buf.String())
}
