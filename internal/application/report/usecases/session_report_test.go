package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

func TestSessionReportUseCase_Execute(t *testing.T) {
	source := &mockReportSource{
		ListAttendanceFunc: func(_ context.Context, id string) ([]authority.AttendanceEntry, error) {
			return []authority.AttendanceEntry{{StudentID: "A", SessionID: id, ConfidenceScore: 100}}, nil
		},
		GetSummaryFunc: func(_ context.Context, id string) (*authority.SessionSummary, error) {
			return &authority.SessionSummary{SessionID: id, TotalAttendance: 1}, nil
		},
	}

	report, err := NewSessionReportUseCase(source, logger.NewNop()).Execute(context.Background(), " S1 ")
	require.NoError(t, err)
	assert.Equal(t, "S1", report.SessionID)
	assert.Len(t, report.Attendance, 1)
	assert.Equal(t, 1, report.Summary.TotalAttendance)
}

func TestSessionReportUseCase_EmptyAttendance(t *testing.T) {
	report, err := NewSessionReportUseCase(&mockReportSource{}, logger.NewNop()).Execute(context.Background(), "S1")
	require.NoError(t, err)
	assert.NotNil(t, report.Attendance)
	assert.Empty(t, report.Attendance)
}

func TestSessionReportUseCase_Errors(t *testing.T) {
	_, err := NewSessionReportUseCase(&mockReportSource{}, logger.NewNop()).Execute(context.Background(), "")
	assert.True(t, errors.IsValidationError(err))

	source := &mockReportSource{
		ListAttendanceFunc: func(context.Context, string) ([]authority.AttendanceEntry, error) {
			return nil, errors.NewUnauthorizedError("authority rejected credentials")
		},
	}
	_, err = NewSessionReportUseCase(source, logger.NewNop()).Execute(context.Background(), "S1")
	assert.True(t, errors.IsUnauthorized(err))
}
