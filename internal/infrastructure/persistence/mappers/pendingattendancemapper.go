package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/persistence/models"
)

// PendingAttendanceMapper handles the conversion between proof records and persistence models.
type PendingAttendanceMapper interface {
	// ToEntity converts a persistence model to a domain record.
	ToEntity(model *models.PendingAttendanceModel) *proof.Record

	// ToModel converts a domain record to a persistence model.
	ToModel(record *proof.Record) (*models.PendingAttendanceModel, error)

	// ToEntities converts multiple persistence models to domain records.
	ToEntities(models []*models.PendingAttendanceModel) []*proof.Record
}

type PendingAttendanceMapperImpl struct{}

func NewPendingAttendanceMapper() PendingAttendanceMapper {
	return &PendingAttendanceMapperImpl{}
}

func (m *PendingAttendanceMapperImpl) ToEntity(model *models.PendingAttendanceModel) *proof.Record {
	if model == nil {
		return nil
	}

	r := &proof.Record{
		ID:                model.ID,
		StudentID:         model.StudentID,
		SessionID:         model.SessionID,
		WindowTime:        model.WindowTime,
		Token:             model.Token,
		Proof:             model.Proof,
		ConfidenceScore:   model.ConfidenceScore,
		DeviceID:          model.DeviceID,
		UserAgent:         model.UserAgent,
		ScreenResolution:  model.ScreenResolution,
		StudentLat:        model.StudentLat,
		StudentLng:        model.StudentLng,
		GPSAccuracyMeters: model.GPSAccuracyMeters,
		VerifiedAt:        model.VerifiedAt.UTC(),
	}
	if model.LocationCapturedAt != nil {
		at := model.LocationCapturedAt.UTC()
		r.LocationCapturedAt = &at
	}
	if len(model.Submission) > 0 {
		var snapshot proof.Submission
		if err := json.Unmarshal(model.Submission, &snapshot); err == nil {
			r.Snapshot = &snapshot
		}
	}
	return r
}

func (m *PendingAttendanceMapperImpl) ToModel(record *proof.Record) (*models.PendingAttendanceModel, error) {
	if record == nil {
		return nil, nil
	}

	snapshot, err := json.Marshal(record.Submission())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission snapshot: %w", err)
	}

	return &models.PendingAttendanceModel{
		ID:                 record.ID,
		StudentID:          record.StudentID,
		SessionID:          record.SessionID,
		WindowTime:         record.WindowTime,
		Token:              record.Token,
		Proof:              record.Proof,
		ConfidenceScore:    record.ConfidenceScore,
		DeviceID:           record.DeviceID,
		UserAgent:          record.UserAgent,
		ScreenResolution:   record.ScreenResolution,
		StudentLat:         record.StudentLat,
		StudentLng:         record.StudentLng,
		GPSAccuracyMeters:  record.GPSAccuracyMeters,
		LocationCapturedAt: record.LocationCapturedAt,
		VerifiedAt:         record.VerifiedAt,
		Submission:         datatypes.JSON(snapshot),
	}, nil
}

func (m *PendingAttendanceMapperImpl) ToEntities(list []*models.PendingAttendanceModel) []*proof.Record {
	records := make([]*proof.Record, 0, len(list))
	for _, model := range list {
		records = append(records, m.ToEntity(model))
	}
	return records
}
