package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/infrastructure/authority"
)

// SessionAuthority is the part of the remote authority the broadcaster uses.
type SessionAuthority interface {
	StartSession(ctx context.Context, req *authority.StartSessionRequest) (*authority.SessionResponse, error)
	GetTeacherView(ctx context.Context, sessionID string) (*authority.SessionResponse, error)
	CloseSession(ctx context.Context, sessionID string) (*authority.SessionResponse, error)
}

type StartSessionExecutor interface {
	Execute(ctx context.Context, cmd StartSessionCommand) (*StartSessionResult, error)
}

type CloseSessionExecutor interface {
	Execute(ctx context.Context) (*CloseSessionResult, error)
}
