package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/domain/verification"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// AssessScanUseCase judges a scan without queuing anything.
type AssessScanUseCase struct {
	scorer  *verification.Scorer
	clock   biztime.Clock
	metrics VerificationMetrics
	logger  logger.Interface
}

func NewAssessScanUseCase(
	scorer *verification.Scorer,
	clock biztime.Clock,
	metrics VerificationMetrics,
	logger logger.Interface,
) *AssessScanUseCase {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AssessScanUseCase{scorer: scorer, clock: clock, metrics: metrics, logger: logger}
}

// Execute never fails on bad input: undecodable text is reported as a
// "Scan QR" issue.
func (uc *AssessScanUseCase) Execute(ctx context.Context, req dto.ScanRequest) (*dto.AssessmentDTO, error) {
	a, p := uc.assess(req)
	return dto.ToAssessmentDTO(a, p), nil
}

func (uc *AssessScanUseCase) assess(req dto.ScanRequest) (verification.Assessment, *proof.Payload) {
	p, ok := proof.Decode(req.Payload)
	if !ok {
		p = nil
		if req.Payload != "" {
			uc.logger.Debugw("scanned text is not a proof payload", "length", len(req.Payload))
		}
	}

	a := uc.scorer.Assess(p, verification.Signals{
		Location:              req.Location.ToLocation(),
		CorroborationDetected: req.CorroborationDetected,
	}, uc.clock.Now())
	uc.metrics.ObserveVerification(a.OK)

	if p != nil {
		uc.logger.Debugw("scan assessed",
			"session_id", p.SessionID,
			"ok", a.OK,
			"score", a.Score,
			"issues", len(a.Issues),
		)
	}
	return a, p
}
