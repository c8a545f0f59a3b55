package model

import "time"

// Resource names one of the three dashboard data sources.
type Resource string

const (
	ResourceSignals    Resource = "signals"
	ResourceAuditLog   Resource = "audit_log"
	ResourceCompliance Resource = "compliance"
)

// Signal is one anonymized customer interaction as returned by /signals.
// AnonymizedContent is sanitized by the backend and rendered as-is.
type Signal struct {
	SignalID          string    `json:"signal_id"`
	Urgency           Label     `json:"urgency"`
	Sentiment         Label     `json:"sentiment"`
	Category          string    `json:"category"`
	AnonymizedContent string    `json:"anonymized_content"`
	CreatedAt         Timestamp `json:"created_at"`
}

// SignalList is the /signals response body.
type SignalList struct {
	Total   int      `json:"total"`
	Signals []Signal `json:"signals"`
}

// Len reports the number of signals, treating a nil list as empty.
func (l *SignalList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Signals)
}

// AuditEntry is one action recorded by the backend audit trail.
type AuditEntry struct {
	Action    string    `json:"action"`
	SignalID  string    `json:"signal_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

// AuditLog is the /audit-log response body.
type AuditLog struct {
	Total   int          `json:"total"`
	Entries []AuditEntry `json:"entries"`
}

// Len reports the number of entries, treating a nil log as empty.
func (l *AuditLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// ComplianceDetails holds the nested breakdowns of a compliance report.
type ComplianceDetails struct {
	UrgencyLevels     map[string]int `json:"urgency_levels,omitempty"`
	Categories        map[string]int `json:"categories,omitempty"`
	PIITypes          map[string]int `json:"pii_types,omitempty"`
	AnonymizationRate float64        `json:"anonymization_rate,omitempty"`
	AuditCoverage     float64        `json:"audit_coverage,omitempty"`
}

// ComplianceSummary is the /compliance/report response body.
type ComplianceSummary struct {
	TenantID         string            `json:"tenant_id,omitempty"`
	ReportDate       Timestamp         `json:"report_date"`
	TotalSignals     int               `json:"total_signals"`
	PIIAnonymized    int               `json:"pii_anonymized"`
	AuditEntries     int               `json:"audit_entries"`
	ComplianceStatus string            `json:"compliance_status,omitempty"`
	Details          ComplianceDetails `json:"details"`
}

// CriticalCount returns the number of critical-urgency signals, zero when
// the backend did not report the key.
func (c *ComplianceSummary) CriticalCount() int {
	if c == nil {
		return 0
	}
	return c.Details.UrgencyLevels["critical"]
}

// RefreshResult is the outcome of one refresh cycle. A nil field means the
// corresponding fetch failed.
type RefreshResult struct {
	Signals    *SignalList
	AuditLog   *AuditLog
	Compliance *ComplianceSummary
}

// Absent lists the resources whose fetch yielded no result.
func (r RefreshResult) Absent() []Resource {
	var out []Resource
	if r.Signals == nil {
		out = append(out, ResourceSignals)
	}
	if r.AuditLog == nil {
		out = append(out, ResourceAuditLog)
	}
	if r.Compliance == nil {
		out = append(out, ResourceCompliance)
	}
	return out
}

// CycleRecord is the bookkeeping kept for one refresh cycle. It never
// contains fetched entities.
type CycleRecord struct {
	ID           string        `json:"id"`
	Trigger      string        `json:"trigger"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	SignalsOK    bool          `json:"signals_ok"`
	AuditLogOK   bool          `json:"audit_log_ok"`
	ComplianceOK bool          `json:"compliance_ok"`
	SignalCount  int           `json:"signal_count"`
	AuditCount   int           `json:"audit_count"`
}
