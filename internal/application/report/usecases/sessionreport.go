package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// ReportSource is the reporting side of the remote authority.
type ReportSource interface {
	ListAttendance(ctx context.Context, sessionID string) ([]authority.AttendanceEntry, error)
	GetSummary(ctx context.Context, sessionID string) (*authority.SessionSummary, error)
}

type SessionReport struct {
	SessionID  string                      `json:"sessionId"`
	Summary    *authority.SessionSummary   `json:"summary"`
	Attendance []authority.AttendanceEntry `json:"attendance"`
}

type SessionReportExecutor interface {
	Execute(ctx context.Context, sessionID string) (*SessionReport, error)
}

// SessionReportUseCase fetches the attendance list and summary for one session.
type SessionReportUseCase struct {
	source ReportSource
	logger logger.Interface
}

func NewSessionReportUseCase(source ReportSource, logger logger.Interface) *SessionReportUseCase {
	return &SessionReportUseCase{source: source, logger: logger}
}

func (uc *SessionReportUseCase) Execute(ctx context.Context, sessionID string) (*SessionReport, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.NewValidationError("session id is required")
	}

	entries, err := uc.source.ListAttendance(ctx, sessionID)
	if err != nil {
		uc.logger.Errorw("failed to list attendance", "session_id", sessionID, "error", err)
		return nil, err
	}
	summary, err := uc.source.GetSummary(ctx, sessionID)
	if err != nil {
		uc.logger.Errorw("failed to fetch session summary", "session_id", sessionID, "error", err)
		return nil, err
	}

	if entries == nil {
		entries = []authority.AttendanceEntry{}
	}
	return &SessionReport{SessionID: sessionID, Summary: summary, Attendance: entries}, nil
}
