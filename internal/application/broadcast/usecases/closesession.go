package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/application/broadcast/services"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

type CloseSessionResult struct {
	SessionID      string `json:"sessionId"`
	Status         string `json:"status"`
	PayloadsIssued int64  `json:"payloadsIssued"`
}

type CloseSessionUseCase struct {
	authority SessionAuthority
	current   *services.Current
	logger    logger.Interface
}

func NewCloseSessionUseCase(authority SessionAuthority, current *services.Current, logger logger.Interface) *CloseSessionUseCase {
	return &CloseSessionUseCase{authority: authority, current: current, logger: logger}
}

// Execute closes the running session at the authority, then stops broadcasting.
// When the authority call fails the broadcaster keeps running.
func (uc *CloseSessionUseCase) Execute(ctx context.Context) (*CloseSessionResult, error) {
	b := uc.current.Get()
	if b == nil {
		return nil, errors.NewNotFoundError("no session is being broadcast")
	}

	if _, err := uc.authority.CloseSession(ctx, b.SessionID()); err != nil {
		uc.logger.Errorw("failed to close session", "session_id", b.SessionID(), "error", err)
		return nil, err
	}

	b.Close()
	uc.current.Release(b)

	uc.logger.Infow("session closed", "session_id", b.SessionID(), "payloads_issued", b.Issued())

	return &CloseSessionResult{
		SessionID:      b.SessionID(),
		Status:         b.View().Status.String(),
		PayloadsIssued: b.Issued(),
	}, nil
}
