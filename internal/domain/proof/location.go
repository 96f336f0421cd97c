package proof

import (
	"math"
	"time"
)

// Location is one GPS sample captured by the verifier for a single attempt.
// A nil AccuracyMeters or a zero CapturedAt means the sensor did not report it.
type Location struct {
	Lat            float64
	Lng            float64
	AccuracyMeters *float64
	CapturedAt     time.Time
}

// Valid reports whether the coordinates are finite and in range.
func (l *Location) Valid() bool {
	if l == nil {
		return false
	}
	return finite(l.Lat) && finite(l.Lng) &&
		l.Lat >= -90 && l.Lat <= 90 &&
		l.Lng >= -180 && l.Lng <= 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
