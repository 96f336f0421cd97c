package models

import (
	"time"

	"gorm.io/datatypes"
)

// TablePendingAttendance holds proofs accepted locally and not yet synchronized.
const TablePendingAttendance = "pending_attendance"

// PendingAttendanceModel represents the database persistence model for queued proofs.
// (student_id, session_id) is unique: one active attempt per student per session.
type PendingAttendanceModel struct {
	ID                 string         `gorm:"primaryKey;size:255"`
	StudentID          string         `gorm:"not null;size:128;uniqueIndex:idx_pending_student_session,priority:1"`
	SessionID          string         `gorm:"not null;size:128;uniqueIndex:idx_pending_student_session,priority:2;index:idx_pending_session"`
	WindowTime         int64          `gorm:"not null"`
	Token              string         `gorm:"not null;size:128"`
	Proof              string         `gorm:"not null;size:128"`
	ConfidenceScore    int            `gorm:"not null;default:0"`
	DeviceID           string         `gorm:"size:64"`
	UserAgent          string         `gorm:"size:512"`
	ScreenResolution   string         `gorm:"size:32"`
	StudentLat         *float64       `gorm:"default:null"`
	StudentLng         *float64       `gorm:"default:null"`
	GPSAccuracyMeters  *float64       `gorm:"column:gps_accuracy_meters;default:null"`
	LocationCapturedAt *time.Time     `gorm:"default:null"`
	VerifiedAt         time.Time      `gorm:"not null"`
	Submission         datatypes.JSON // wire snapshot for operator inspection
	CreatedAt          time.Time
}

// TableName specifies the table name for GORM.
func (PendingAttendanceModel) TableName() string {
	return TablePendingAttendance
}
