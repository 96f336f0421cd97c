package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/application/verify/dto"
	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

type ListPendingResult struct {
	Records []*dto.RecordDTO `json:"records"`
	Total   int              `json:"total"`
}

type ListPendingUseCase struct {
	store  proof.Store
	logger logger.Interface
}

func NewListPendingUseCase(store proof.Store, logger logger.Interface) *ListPendingUseCase {
	return &ListPendingUseCase{store: store, logger: logger}
}

func (uc *ListPendingUseCase) Execute(ctx context.Context) (*ListPendingResult, error) {
	records, err := uc.store.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list pending records", "error", err)
		return nil, errors.NewInternalError("failed to read pending records")
	}
	return &ListPendingResult{Records: dto.ToRecordDTOs(records), Total: len(records)}, nil
}

// RemovePendingUseCase deletes one queued record. Removing an unknown id succeeds.
type RemovePendingUseCase struct {
	store   proof.Store
	metrics SyncMetrics
	logger  logger.Interface
}

func NewRemovePendingUseCase(store proof.Store, metrics SyncMetrics, logger logger.Interface) *RemovePendingUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RemovePendingUseCase{store: store, metrics: metrics, logger: logger}
}

func (uc *RemovePendingUseCase) Execute(ctx context.Context, id string) error {
	if err := utils.ValidateID(id); err != nil {
		return err
	}
	if err := uc.store.Remove(ctx, id); err != nil {
		uc.logger.Errorw("failed to remove pending record", "record_id", id, "error", err)
		return errors.NewInternalError("failed to remove pending record")
	}
	if n, err := uc.store.Count(ctx); err == nil {
		uc.metrics.SetPending(n)
	}
	uc.logger.Infow("pending record removed", "record_id", id)
	return nil
}

type ClearPendingResult struct {
	Cleared int64 `json:"cleared"`
}

type ClearPendingUseCase struct {
	store   proof.Store
	metrics SyncMetrics
	logger  logger.Interface
}

func NewClearPendingUseCase(store proof.Store, metrics SyncMetrics, logger logger.Interface) *ClearPendingUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ClearPendingUseCase{store: store, metrics: metrics, logger: logger}
}

func (uc *ClearPendingUseCase) Execute(ctx context.Context) (*ClearPendingResult, error) {
	n, err := uc.store.Count(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to count pending records")
	}
	if err := uc.store.Clear(ctx); err != nil {
		uc.logger.Errorw("failed to clear pending records", "error", err)
		return nil, errors.NewInternalError("failed to clear pending records")
	}
	uc.metrics.SetPending(0)
	uc.logger.Warnw("pending queue cleared", "records", n)
	return &ClearPendingResult{Cleared: n}, nil
}
