package dto

import (
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/verification"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

// LocationDTO is a location sample as reported by the sensing layer.
// Lat and Lng must both be present for the sample to count.
type LocationDTO struct {
	Lat            *float64        `json:"lat"`
	Lng            *float64        `json:"lng"`
	AccuracyMeters *float64        `json:"accuracyMeters"`
	CapturedAt     biztime.Instant `json:"capturedAt"`
}

func (l *LocationDTO) ToLocation() *proof.Location {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return nil
	}
	return &proof.Location{
		Lat:            *l.Lat,
		Lng:            *l.Lng,
		AccuracyMeters: l.AccuracyMeters,
		CapturedAt:     l.CapturedAt.Time,
	}
}

// ScanRequest carries the raw scanned text and whatever signals were captured.
type ScanRequest struct {
	Payload               string       `json:"payload"`
	Location              *LocationDTO `json:"location"`
	CorroborationDetected bool         `json:"corroborationDetected"`
}

type RecordAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required,max=128"`
	ScanRequest
}

type AssessmentDTO struct {
	OK              bool     `json:"ok"`
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	DistanceMeters  *float64 `json:"distanceMeters"`
	FreshnessOK     bool     `json:"freshnessOk"`
	LocationMissing bool     `json:"locationMissing"`
	SessionID       string   `json:"sessionId,omitempty"`
	WindowTime      *int64   `json:"windowTime,omitempty"`
}

func ToAssessmentDTO(a verification.Assessment, p *proof.Payload) *AssessmentDTO {
	d := &AssessmentDTO{
		OK:              a.OK,
		Score:           a.Score,
		Issues:          a.Issues,
		DistanceMeters:  a.DistanceMeters,
		FreshnessOK:     a.FreshnessOK,
		LocationMissing: a.LocationMissing,
	}
	if p != nil {
		d.SessionID = p.SessionID
		d.WindowTime = p.WindowTime
	}
	return d
}

type RecordDTO struct {
	ID                 string   `json:"id"`
	StudentID          string   `json:"studentId"`
	SessionID          string   `json:"sessionId"`
	WindowTime         int64    `json:"windowTime"`
	Token              string   `json:"token"`
	Proof              string   `json:"proof"`
	ConfidenceScore    int      `json:"confidenceScore"`
	DeviceID           string   `json:"deviceId"`
	UserAgent          string   `json:"userAgent"`
	ScreenResolution   string   `json:"screenResolution"`
	StudentLat         *float64 `json:"studentLat"`
	StudentLng         *float64 `json:"studentLng"`
	GPSAccuracyMeters  *float64 `json:"gpsAccuracyMeters"`
	LocationCapturedAt *string  `json:"locationCapturedAt"`
	VerifiedAt         string   `json:"verifiedAt"`

	// Submission is the queued wire body, as stored.
	Submission *proof.Submission `json:"submission,omitempty"`
}

func ToRecordDTO(r *proof.Record) *RecordDTO {
	s := r.Submission()
	return &RecordDTO{
		ID:                 r.ID,
		StudentID:          s.StudentID,
		SessionID:          s.SessionID,
		WindowTime:         s.WindowTime,
		Token:              s.Token,
		Proof:              s.Proof,
		ConfidenceScore:    s.ConfidenceScore,
		DeviceID:           s.DeviceID,
		UserAgent:          s.UserAgent,
		ScreenResolution:   s.ScreenResolution,
		StudentLat:         s.StudentLat,
		StudentLng:         s.StudentLng,
		GPSAccuracyMeters:  s.GPSAccuracyMeters,
		LocationCapturedAt: s.LocationCapturedAt,
		VerifiedAt:         s.VerifiedAt,
		Submission:         r.Snapshot,
	}
}

func ToRecordDTOs(records []*proof.Record) []*RecordDTO {
	out := make([]*RecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToRecordDTO(r))
	}
	return out
}
