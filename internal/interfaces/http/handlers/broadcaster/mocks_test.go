package broadcaster

import (
	"context"

	"github.com/orris-inc/rollcall/internal/application/broadcast/usecases"
)

type mockStartSessionUseCase struct {
	ExecuteFunc func(ctx context.Context, cmd usecases.StartSessionCommand) (*usecases.StartSessionResult, error)
}

func (m *mockStartSessionUseCase) Execute(ctx context.Context, cmd usecases.StartSessionCommand) (*usecases.StartSessionResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &usecases.StartSessionResult{}, nil
}

type mockCloseSessionUseCase struct {
	ExecuteFunc func(ctx context.Context) (*usecases.CloseSessionResult, error)
}

func (m *mockCloseSessionUseCase) Execute(ctx context.Context) (*usecases.CloseSessionResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return &usecases.CloseSessionResult{}, nil
}
