// Package biztime holds the clock and the timestamp formats used on the wire.
// Storage and transport use UTC; timestamps without a zone designator are read as UTC.
package biztime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-less ISO layout the authority expects for
// verifiedAt and locationCapturedAt.
const LocalDateTimeLayout = "2006-01-02T15:04:05.000"

var zoneLessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Clock abstracts the wall clock so schedulers and scorers can be driven in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return NowUTC() }

// FixedClock always returns T. Intended for tests.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// UnixSeconds returns t as fractional epoch seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FormatLocalDateTime renders t in UTC without a zone designator.
func FormatLocalDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(LocalDateTimeLayout)
}

// Parse accepts RFC 3339 and zone-less ISO timestamps. Zone-less input is UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zoneLessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("biztime: unrecognised timestamp %q", s)
}

// Instant is a UTC time that decodes from either RFC 3339 or zone-less ISO text.
// It encodes as RFC 3339. JSON null and "" decode to the zero value.
type Instant struct {
	time.Time
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		i.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("biztime: instant must be a string: %w", err)
	}
	if s == "" {
		i.Time = time.Time{}
		return nil
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	i.Time = t
	return nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(i.UTC().Format(time.RFC3339Nano))
}
