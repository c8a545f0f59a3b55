package dashboard

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"sync"
	"time"
)

// Element ids of the render targets.
const (
	SignalsContainer = "signals-container"
	AuditContainer   = "audit-container"
	TotalSignals     = "total-signals"
	PIIAnonymized    = "pii-anonymized"
	AuditEntries     = "audit-entries"
	CriticalUrgency  = "critical-urgency"
	LastUpdate       = "last-update"
	RefreshButton    = "refresh-btn"
)

// RequiredElements must all exist before the first refresh.
var RequiredElements = []string{
	SignalsContainer,
	AuditContainer,
	TotalSignals,
	PIIAnonymized,
	AuditEntries,
	CriticalUrgency,
	LastUpdate,
	RefreshButton,
}

var ErrUnknownElement = errors.New("unknown element")

// Snapshot is a consistent copy of every element's content.
type Snapshot struct {
	Version   uint64                   `json:"version"`
	UpdatedAt time.Time                `json:"updated_at"`
	Elements  map[string]template.HTML `json:"panels"`
}

// Document is the set of render targets. Content is replaced wholesale on
// every write; there is no incremental patching.
type Document struct {
	mu        sync.RWMutex
	elements  map[string]template.HTML
	version   uint64
	updatedAt time.Time

	readyOnce sync.Once
	ready     chan struct{}
}

// NewDocument returns an empty document with no elements.
func NewDocument() *Document {
	return &Document{
		elements: make(map[string]template.HTML),
		ready:    make(chan struct{}),
	}
}

// NewDashboardDocument returns a document with every required element
// registered with its initial content.
func NewDashboardDocument() *Document {
	d := NewDocument()
	d.Register(SignalsContainer, template.HTML(`<div class="loading">Loading signals...</div>`))
	d.Register(AuditContainer, template.HTML(`<div class="loading">Loading audit log...</div>`))
	for _, id := range []string{TotalSignals, PIIAnonymized, AuditEntries, CriticalUrgency, LastUpdate} {
		d.Register(id, "-")
	}
	d.Register(RefreshButton, "Refresh")
	return d
}

// Register adds an element. Registering an existing id resets its content.
func (d *Document) Register(id string, initial template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[id] = initial
}

// SetHTML replaces the content of id with trusted markup.
func (d *Document) SetHTML(id string, html template.HTML) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	d.elements[id] = html
	d.version++
	d.updatedAt = time.Now()
	return nil
}

// SetText replaces the content of id with escaped text.
func (d *Document) SetText(id, text string) error {
	return d.SetHTML(id, template.HTML(template.HTMLEscapeString(text)))
}

// SetTexts replaces several elements with escaped text as one write. No
// element is changed if any id is unknown.
func (d *Document) SetTexts(texts map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range texts {
		if _, ok := d.elements[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
	}
	for id, text := range texts {
		d.elements[id] = template.HTML(template.HTMLEscapeString(text))
	}
	d.version++
	d.updatedAt = time.Now()
	return nil
}

// Get returns the content of id.
func (d *Document) Get(id string) (template.HTML, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.elements[id]
	return v, ok
}

// Snapshot copies all elements under one read lock.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]template.HTML, len(d.elements))
	for k, v := range d.elements {
		out[k] = v
	}
	return Snapshot{Version: d.version, UpdatedAt: d.updatedAt, Elements: out}
}

// Missing returns the ids from want that are not registered, sorted.
func (d *Document) Missing(want []string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for _, id := range want {
		if _, ok := d.elements[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// MarkReady opens the readiness gate once every required element exists.
func (d *Document) MarkReady() error {
	if missing := d.Missing(RequiredElements); len(missing) > 0 {
		return fmt.Errorf("document not ready, missing elements: %s", strings.Join(missing, ", "))
	}
	d.readyOnce.Do(func() { close(d.ready) })
	return nil
}

// Ready is closed once MarkReady has succeeded.
func (d *Document) Ready() <-chan struct{} {
	return d.ready
}

// IsReady reports whether the readiness gate is open.
func (d *Document) IsReady() bool {
	select {
	case <-d.ready:
		return true
	default:
		return false
	}
}
