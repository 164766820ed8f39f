package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form every timestamp is stored and served in.
// The fixed fractional width keeps stored values sortable as plain strings.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp wraps time.Time so it round-trips through the document store as a
// fixed-width UTC ISO-8601 string.
type Timestamp struct {
	time.Time
}

// Now returns the current UTC time truncated to the stored precision.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp converts t to UTC at microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Microsecond)}
}

// String formats the timestamp using TimestampLayout.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// ISODate returns the YYYY-MM-DD portion.
func (t Timestamp) ISODate() string {
	return t.UTC().Format("2006-01-02")
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	// Older rows may carry RFC 3339 values of any precision.
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("model: invalid timestamp %q", s)
}
