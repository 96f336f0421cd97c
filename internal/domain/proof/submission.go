package proof

import (
	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

// Submission is the wire shape of one record in a batch offline-sync request.
// Nullable fields are sent as JSON null rather than omitted.
type Submission struct {
	StudentID          string   `json:"studentId"`
	SessionID          string   `json:"sessionId"`
	WindowTime         int64    `json:"windowTime"`
	Token              string   `json:"token"`
	Proof              string   `json:"proof"`
	ConfidenceScore    int      `json:"confidenceScore"`
	UserAgent          string   `json:"userAgent"`
	ScreenResolution   string   `json:"screenResolution"`
	DeviceID           string   `json:"deviceId"`
	StudentLat         *float64 `json:"studentLat"`
	StudentLng         *float64 `json:"studentLng"`
	GPSAccuracyMeters  *float64 `json:"gpsAccuracyMeters"`
	LocationCapturedAt *string  `json:"locationCapturedAt"`
	VerifiedAt         string   `json:"verifiedAt"`
}

// Submission drops the local-only id and renders timestamps as zone-less local date-times.
func (r *Record) Submission() Submission {
	s := Submission{
		StudentID:         r.StudentID,
		SessionID:         r.SessionID,
		WindowTime:        r.WindowTime,
		Token:             r.Token,
		Proof:             r.Proof,
		ConfidenceScore:   r.ConfidenceScore,
		UserAgent:         r.UserAgent,
		ScreenResolution:  r.ScreenResolution,
		DeviceID:          r.DeviceID,
		StudentLat:        r.StudentLat,
		StudentLng:        r.StudentLng,
		GPSAccuracyMeters: r.GPSAccuracyMeters,
		VerifiedAt:        biztime.FormatLocalDateTime(r.VerifiedAt),
	}
	if r.LocationCapturedAt != nil {
		at := biztime.FormatLocalDateTime(*r.LocationCapturedAt)
		s.LocationCapturedAt = &at
	}
	return s
}

// Submissions maps a batch of records in order.
func Submissions(records []*Record) []Submission {
	out := make([]Submission, 0, len(records))
	for _, r := range records {
		out = append(out, r.Submission())
	}
	return out
}
