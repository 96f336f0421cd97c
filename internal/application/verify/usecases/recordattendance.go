package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
	"github.com/orris-inc/rollcall/internal/shared/utils/logutil"
)

// RecordAttendanceResult reports the assessment and, when accepted, the queued record.
type RecordAttendanceResult struct {
	Accepted   bool               `json:"accepted"`
	Assessment *dto.AssessmentDTO `json:"assessment"`
	Record     *dto.RecordDTO     `json:"record,omitempty"`
}

// RecordAttendanceUseCase assesses a scan and queues the proof when it passes.
type RecordAttendanceUseCase struct {
	assessor *AssessScanUseCase
	store    proof.Store
	devices  *GetDeviceUseCase
	clock    biztime.Clock
	metrics  VerificationMetrics
	logger   logger.Interface
}

func NewRecordAttendanceUseCase(
	assessor *AssessScanUseCase,
	store proof.Store,
	devices *GetDeviceUseCase,
	clock biztime.Clock,
	metrics VerificationMetrics,
	logger logger.Interface,
) *RecordAttendanceUseCase {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RecordAttendanceUseCase{
		assessor: assessor,
		store:    store,
		devices:  devices,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute returns a non-accepted result, not an error, when verification
// fails. A second attempt for the same student and session is a duplicate.
func (uc *RecordAttendanceUseCase) Execute(ctx context.Context, req dto.RecordAttendanceRequest) (*RecordAttendanceResult, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, err
	}

	a, p := uc.assessor.assess(req.ScanRequest)
	result := &RecordAttendanceResult{Assessment: dto.ToAssessmentDTO(a, p)}
	if !a.OK {
		uc.logger.Infow("verification rejected", "student_id", req.StudentID, "score", a.Score, "issues", strings.Join(a.Issues, "; "))
		return result, nil
	}

	fp, err := uc.devices.Execute(ctx)
	if err != nil {
		return nil, err
	}

	record, err := proof.NewRecord(req.StudentID, p, a.Score, *fp, req.Location.ToLocation(), uc.clock.Now())
	if err != nil {
		return nil, errors.NewMalformedInputError("Payload cannot be recorded", err.Error())
	}

	if err := uc.store.Put(ctx, record); err != nil {
		if stderrors.Is(err, proof.ErrDuplicateAttempt) {
			uc.metrics.RecordDuplicate()
			uc.logger.Warnw("duplicate attendance attempt", "student_id", record.StudentID, "session_id", record.SessionID)
			return nil, errors.NewDuplicateError("Attendance already captured for this session", record.ID)
		}
		uc.logger.Errorw("failed to queue attendance proof", "record_id", record.ID, "error", err)
		return nil, errors.NewInternalError("failed to queue attendance proof")
	}

	uc.metrics.RecordSaved()
	if n, err := uc.store.Count(ctx); err == nil {
		uc.metrics.SetPending(n)
	}

	uc.logger.Infow("attendance proof queued",
		"record_id", record.ID,
		"score", record.ConfidenceScore,
		"proof", logutil.Token(record.Proof),
	)

	result.Accepted = true
	result.Record = dto.ToRecordDTO(record)
	return result, nil
}
