package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
)

type mockReportSource struct {
	ListAttendanceFunc func(ctx context.Context, sessionID string) ([]authority.AttendanceEntry, error)
	GetSummaryFunc     func(ctx context.Context, sessionID string) (*authority.SessionSummary, error)
}

func (m *mockReportSource) ListAttendance(ctx context.Context, sessionID string) ([]authority.AttendanceEntry, error) {
	if m.ListAttendanceFunc != nil {
		return m.ListAttendanceFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockReportSource) GetSummary(ctx context.Context, sessionID string) (*authority.SessionSummary, error) {
	if m.GetSummaryFunc != nil {
		return m.GetSummaryFunc(ctx, sessionID)
	}
	return &authority.SessionSummary{SessionID: sessionID}, nil
}
