package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Label is an enumerated category such as an urgency or sentiment. The
// backend sends most labels as strings but reports sentiment as a numeric
// score, so numbers are accepted and kept in their shortest decimal form.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*l = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
	case string(b) == "true" || string(b) == "false":
		*l = Label(b)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("label: unsupported value %s", b)
		}
		*l = Label(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

func (l Label) String() string { return string(l) }

// Timestamp is a point in time decoded from either epoch milliseconds or an
// ISO-8601 string. A zone-less ISO string is floating: it is read as a wall
// clock in whatever zone the formatter displays.
type Timestamp struct {
	t        time.Time
	valid    bool
	floating bool
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var floatingLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// maxEpochMillis bounds the representable instants, 10^8 days either side
// of the epoch.
const maxEpochMillis = 8.64e15

// TimestampFromMillis builds a timestamp from Unix epoch milliseconds.
// Values beyond maxEpochMillis are invalid.
func TimestampFromMillis(ms int64) Timestamp {
	if ms > maxEpochMillis || ms < -maxEpochMillis {
		return Timestamp{}
	}
	return Timestamp{t: time.UnixMilli(ms).UTC(), valid: true}
}

// ParseTimestamp reads an ISO-8601 date or date-time. Unparseable input
// yields an invalid timestamp.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t, valid: true}
		}
	}
	for _, layout := range floatingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t, valid: true, floating: true}
		}
	}
	// Date-only forms are UTC midnight.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Timestamp{t: t, valid: true}
	}
	return Timestamp{}
}

// Valid reports whether the timestamp holds a parseable value.
func (ts Timestamp) Valid() bool { return ts.valid }

// In returns the timestamp as seen in loc. Floating timestamps keep their
// wall clock and take loc as their zone.
func (ts Timestamp) In(loc *time.Location) (time.Time, bool) {
	if !ts.valid {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if ts.floating {
		t := ts.t
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), true
	}
	return ts.t.In(loc), true
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*ts = Timestamp{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*ts = ParseTimestamp(s)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil || math.IsNaN(f) || math.Abs(f) > maxEpochMillis {
			*ts = Timestamp{}
			return nil
		}
		*ts = TimestampFromMillis(int64(f))
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	if ts.floating {
		return json.Marshal(ts.t.Format("2006-01-02T15:04:05.999999999"))
	}
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}
