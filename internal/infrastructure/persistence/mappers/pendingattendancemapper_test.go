package mappers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

func TestPendingAttendanceMapperRoundTrip(t *testing.T) {
	lat, acc := 12.5, 9.0
	captured := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	record := &proof.Record{
		ID:                 "S1_A",
		StudentID:          "A",
		SessionID:          "S1",
		WindowTime:         42,
		Token:              "tok",
		Proof:              "p",
		ConfidenceScore:    70,
		StudentLat:         &lat,
		GPSAccuracyMeters:  &acc,
		LocationCapturedAt: &captured,
		VerifiedAt:         captured.Add(time.Second),
	}

	m := NewPendingAttendanceMapper()
	model, err := m.ToModel(record)
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(model.Submission, &snapshot))
	assert.Equal(t, "2026-03-01T09:00:00.000", snapshot["locationCapturedAt"])
	assert.NotContains(t, snapshot, "id")

	back := m.ToEntity(model)
	require.NotNil(t, back.Snapshot)
	assert.Equal(t, record.Submission(), *back.Snapshot)

	back.Snapshot = nil
	assert.Equal(t, record, back)

	model.Submission = nil
	assert.Nil(t, m.ToEntity(model).Snapshot)

	assert.Len(t, m.ToEntities(nil), 0)
	assert.Nil(t, m.ToEntity(nil))
}
