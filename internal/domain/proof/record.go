package proof

import (
	"strings"
	"time"

	"github.com/orris-inc/rollcall/internal/domain/device"
)

// Record is one locally accepted, not yet synchronized attendance proof.
// At most one record exists per (SessionID, StudentID).
type Record struct {
	ID                 string
	StudentID          string
	SessionID          string
	WindowTime         int64
	Token              string
	Proof              string
	ConfidenceScore    int
	DeviceID           string
	UserAgent          string
	ScreenResolution   string
	StudentLat         *float64
	StudentLng         *float64
	GPSAccuracyMeters  *float64
	LocationCapturedAt *time.Time
	VerifiedAt         time.Time

	// Snapshot is the wire body frozen when the record was queued. Nil when the
	// store keeps none.
	Snapshot *Submission
}

// idEscaper keeps "_" out of both parts so the joined key stays unambiguous.
var idEscaper = strings.NewReplacer("~", "~~", "_", "~u")

// RecordID derives the synthetic store key for a student's attempt at a session.
// Plain ids come out as sessionID_studentID.
func RecordID(sessionID, studentID string) string {
	return idEscaper.Replace(sessionID) + "_" + idEscaper.Replace(studentID)
}

// NewRecord builds the record for a locally accepted scan and computes its commitment.
func NewRecord(studentID string, p *Payload, score int, fp device.Fingerprint, loc *Location, verifiedAt time.Time) (*Record, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, ErrStudentIDRequired
	}
	if p == nil || !p.Complete() {
		return nil, ErrPayloadIncomplete
	}

	r := &Record{
		ID:               RecordID(p.SessionID, studentID),
		StudentID:        studentID,
		SessionID:        p.SessionID,
		WindowTime:       *p.WindowTime,
		Token:            p.Token,
		Proof:            DeriveCommitment(studentID, p.SessionID, p.Token, fp.DeviceID),
		ConfidenceScore:  score,
		DeviceID:         fp.DeviceID,
		UserAgent:        fp.UserAgent,
		ScreenResolution: fp.ScreenResolution,
		VerifiedAt:       verifiedAt.UTC(),
	}

	if loc != nil {
		lat, lng := loc.Lat, loc.Lng
		r.StudentLat = &lat
		r.StudentLng = &lng
		if loc.AccuracyMeters != nil {
			acc := *loc.AccuracyMeters
			r.GPSAccuracyMeters = &acc
		}
		if !loc.CapturedAt.IsZero() {
			at := loc.CapturedAt.UTC()
			r.LocationCapturedAt = &at
		}
	}

	return r, nil
}

// Key is the (studentId, sessionId) pair the authority reports verdicts against.
type Key struct {
	StudentID string
	SessionID string
}

func (r *Record) Key() Key {
	return Key{StudentID: r.StudentID, SessionID: r.SessionID}
}
