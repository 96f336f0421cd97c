package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	"github.com/orris-inc/rollcall/internal/domain/device"
)

// VerificationMetrics is satisfied by *metrics.Collector.
type VerificationMetrics interface {
	ObserveVerification(ok bool)
	RecordSaved()
	RecordDuplicate()
	SetPending(n int64)
}

type noopMetrics struct{}

func (noopMetrics) ObserveVerification(bool) {}
func (noopMetrics) RecordSaved()             {}
func (noopMetrics) RecordDuplicate()         {}
func (noopMetrics) SetPending(int64)         {}

type AssessScanExecutor interface {
	Execute(ctx context.Context, req dto.ScanRequest) (*dto.AssessmentDTO, error)
}

type RecordAttendanceExecutor interface {
	Execute(ctx context.Context, req dto.RecordAttendanceRequest) (*RecordAttendanceResult, error)
}

type GetDeviceExecutor interface {
	Execute(ctx context.Context) (*device.Fingerprint, error)
}
