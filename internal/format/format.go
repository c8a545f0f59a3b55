// Package format renders timestamps for display in a fixed locale.
package format

import (
	"fmt"
	"strings"
	"time"

	"clawbot-dashboard/internal/model"
)

// DefaultLocale is the display locale of the dashboard.
const DefaultLocale = "de-AT"

// InvalidDate is shown for timestamps that could not be parsed.
const InvalidDate = "Invalid Date"

type localeLayout struct {
	dateTime string
	clock    string
}

// Day/month/year and hour/minute, two digits each, following the
// conventions of the locale.
var layouts = map[string]localeLayout{
	"de-at": {dateTime: "02.01.2006, 15:04", clock: "15:04:05"},
	"de-de": {dateTime: "02.01.2006, 15:04", clock: "15:04:05"},
	"de-ch": {dateTime: "02.01.2006, 15:04", clock: "15:04:05"},
	"en-gb": {dateTime: "02/01/2006, 15:04", clock: "15:04:05"},
	"en-us": {dateTime: "01/02/2006, 03:04 PM", clock: "3:04:05 PM"},
}

// Formatter converts timestamps to display strings.
type Formatter struct {
	locale string
	layout localeLayout
	loc    *time.Location
}

// New returns a formatter for locale showing times in loc.
func New(locale string, loc *time.Location) (*Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(locale))
	if key == "" {
		key = strings.ToLower(DefaultLocale)
	}
	layout, ok := layouts[key]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{locale: locale, layout: layout, loc: loc}, nil
}

// Must is like New but panics on an unsupported locale.
func Must(locale string, loc *time.Location) *Formatter {
	f, err := New(locale, loc)
	if err != nil {
		panic(err)
	}
	return f
}

// Location returns the display time zone.
func (f *Formatter) Location() *time.Location { return f.loc }

// Timestamp formats ts as date and time.
func (f *Formatter) Timestamp(ts model.Timestamp) string {
	t, ok := ts.In(f.loc)
	if !ok {
		return InvalidDate
	}
	return t.Format(f.layout.dateTime)
}

// Clock formats t as a wall-clock time, used for "last updated".
func (f *Formatter) Clock(t time.Time) string {
	return t.In(f.loc).Format(f.layout.clock)
}
