package authority

import (
	"github.com/orris-inc/rollcall/internal/domain/session"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

// StartSessionRequest is the policy a broadcaster asks the authority to open a session with.
type StartSessionRequest struct {
	QRRefreshIntervalSeconds int      `json:"qrRefreshIntervalSeconds" validate:"required,min=5,max=120"`
	TokenWindowSeconds       int      `json:"tokenWindowSeconds" validate:"required,min=5,max=120"`
	AllowedRadiusMeters      int      `json:"allowedRadiusMeters" validate:"required,min=5,max=500"`
	DurationMinutes          int      `json:"durationMinutes" validate:"required,min=1,max=240"`
	MaxGPSAccuracyMeters     *float64 `json:"maxGpsAccuracyMeters,omitempty" validate:"omitempty,gt=0"`
	LocationMaxAgeSeconds    *float64 `json:"locationMaxAgeSeconds,omitempty" validate:"omitempty,gt=0"`
	TeacherLat               *float64 `json:"teacherLat" validate:"required,latitude"`
	TeacherLng               *float64 `json:"teacherLng" validate:"required,longitude"`
}

// SessionResponse is the session view returned by start, get and teacher-view.
// SessionSecret is only present on start and teacher-view responses.
type SessionResponse struct {
	SessionID                string          `json:"sessionId"`
	SessionSecret            string          `json:"sessionSecret,omitempty"`
	QRRefreshIntervalSeconds float64         `json:"qrRefreshIntervalSeconds"`
	TokenWindowSeconds       float64         `json:"tokenWindowSeconds"`
	AllowedRadiusMeters      *float64        `json:"allowedRadiusMeters"`
	MaxGPSAccuracyMeters     *float64        `json:"maxGpsAccuracyMeters"`
	LocationMaxAgeSeconds    *float64        `json:"locationMaxAgeSeconds"`
	TeacherLat               *float64        `json:"teacherLat"`
	TeacherLng               *float64        `json:"teacherLng"`
	EndTime                  biztime.Instant `json:"endTime"`
	Status                   string          `json:"status"`
}

// ToSession converts the response into a domain session.
func (r *SessionResponse) ToSession() (*session.Session, error) {
	policy := session.Policy{
		QRRefreshIntervalSeconds: r.QRRefreshIntervalSeconds,
		TokenWindowSeconds:       r.TokenWindowSeconds,
		AllowedRadiusMeters:      r.AllowedRadiusMeters,
		MaxGPSAccuracyMeters:     r.MaxGPSAccuracyMeters,
		LocationMaxAgeSeconds:    r.LocationMaxAgeSeconds,
		AnchorLat:                r.TeacherLat,
		AnchorLng:                r.TeacherLng,
	}
	return session.Reconstruct(r.SessionID, r.SessionSecret, policy, r.EndTime.Time, session.ParseStatus(r.Status))
}

// AttendanceEntry is one accepted attendance row recorded by the authority.
type AttendanceEntry struct {
	StudentID       string   `json:"studentId"`
	SessionID       string   `json:"sessionId"`
	ConfidenceScore int      `json:"confidenceScore"`
	DistanceMeters  *float64 `json:"distanceMeters"`
	DeviceID        string   `json:"deviceId,omitempty"`
	VerifiedAt      string   `json:"verifiedAt"`
}

// SessionSummary aggregates a session's attendance.
type SessionSummary struct {
	SessionID          string   `json:"sessionId"`
	TotalAttendance    int      `json:"totalAttendance"`
	AvgConfidenceScore *float64 `json:"avgConfidenceScore"`
}
