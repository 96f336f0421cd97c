package verifier

import (
	"context"

	syncUsecases "github.com/orris-inc/rollcall/internal/application/offlinesync/usecases"
	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	verifyUsecases "github.com/orris-inc/rollcall/internal/application/verify/usecases"
)

type mockAssessScanUseCase struct {
	ExecuteFunc func(ctx context.Context, req dto.ScanRequest) (*dto.AssessmentDTO, error)
}

func (m *mockAssessScanUseCase) Execute(ctx context.Context, req dto.ScanRequest) (*dto.AssessmentDTO, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &dto.AssessmentDTO{}, nil
}

type mockRecordAttendanceUseCase struct {
	ExecuteFunc func(ctx context.Context, req dto.RecordAttendanceRequest) (*verifyUsecases.RecordAttendanceResult, error)
}

func (m *mockRecordAttendanceUseCase) Execute(ctx context.Context, req dto.RecordAttendanceRequest) (*verifyUsecases.RecordAttendanceResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &verifyUsecases.RecordAttendanceResult{Accepted: true}, nil
}

type mockListPendingUseCase struct {
	ExecuteFunc func(ctx context.Context) (*syncUsecases.ListPendingResult, error)
}

func (m *mockListPendingUseCase) Execute(ctx context.Context) (*syncUsecases.ListPendingResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return &syncUsecases.ListPendingResult{Records: []*dto.RecordDTO{}}, nil
}

type mockRemovePendingUseCase struct {
	ExecuteFunc func(ctx context.Context, id string) error
}

func (m *mockRemovePendingUseCase) Execute(ctx context.Context, id string) error {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, id)
	}
	return nil
}

type mockClearPendingUseCase struct {
	ExecuteFunc func(ctx context.Context) (*syncUsecases.ClearPendingResult, error)
}

func (m *mockClearPendingUseCase) Execute(ctx context.Context) (*syncUsecases.ClearPendingResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return &syncUsecases.ClearPendingResult{}, nil
}

type mockSyncPendingUseCase struct {
	ExecuteFunc func(ctx context.Context) (*syncUsecases.SyncPendingResult, error)
}

func (m *mockSyncPendingUseCase) Execute(ctx context.Context) (*syncUsecases.SyncPendingResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return &syncUsecases.SyncPendingResult{Message: syncUsecases.NoPendingMessage}, nil
}

type mocks struct {
	assess *mockAssessScanUseCase
	record *mockRecordAttendanceUseCase
	list   *mockListPendingUseCase
	remove *mockRemovePendingUseCase
	clear  *mockClearPendingUseCase
	sync   *mockSyncPendingUseCase
}

func newMocks() *mocks {
	return &mocks{
		assess: &mockAssessScanUseCase{},
		record: &mockRecordAttendanceUseCase{},
		list:   &mockListPendingUseCase{},
		remove: &mockRemovePendingUseCase{},
		clear:  &mockClearPendingUseCase{},
		sync:   &mockSyncPendingUseCase{},
	}
}
