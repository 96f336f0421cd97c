package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/metrics"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/id"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// NoPendingMessage is returned when the queue is empty.
const NoPendingMessage = "No pending records"

type SyncPendingResult struct {
	BatchID  string               `json:"batchId,omitempty"`
	Accepted int                  `json:"accepted"`
	Rejected int                  `json:"rejected"`
	Results  []proof.RecordResult `json:"results"`
	Message  string               `json:"message,omitempty"`
	Removed  []string             `json:"removed"`
	Retained int                  `json:"retained"`
}

// SyncPendingUseCase submits the whole queue as one batch and removes what
// the authority accepted. Concurrent calls in one process share a single
// run; across processes the optional Lease rejects a second runner.
type SyncPendingUseCase struct {
	store     proof.Store
	submitter BatchSubmitter
	lease     Lease
	strict    bool
	metrics   SyncMetrics
	logger    logger.Interface

	group singleflight.Group
}

type SyncOption func(*SyncPendingUseCase)

// WithLease enables cross-process exclusion.
func WithLease(l Lease) SyncOption {
	return func(uc *SyncPendingUseCase) {
		uc.lease = l
	}
}

// WithStrictResults disables the accept-all fallback.
func WithStrictResults(strict bool) SyncOption {
	return func(uc *SyncPendingUseCase) {
		uc.strict = strict
	}
}

func WithSyncMetrics(m SyncMetrics) SyncOption {
	return func(uc *SyncPendingUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func NewSyncPendingUseCase(
	store proof.Store,
	submitter BatchSubmitter,
	logger logger.Interface,
	opts ...SyncOption,
) *SyncPendingUseCase {
	uc := &SyncPendingUseCase{
		store:     store,
		submitter: submitter,
		metrics:   noopMetrics{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs one reconciliation. It never retries; calling it again is safe.
func (uc *SyncPendingUseCase) Execute(ctx context.Context) (*SyncPendingResult, error) {
	v, err, shared := uc.group.Do("sync", func() (interface{}, error) {
		return uc.run(ctx)
	})
	if shared {
		uc.logger.Debugw("sync call coalesced with in-flight run")
	}
	res, _ := v.(*SyncPendingResult)
	return res, err
}

func (uc *SyncPendingUseCase) run(ctx context.Context) (*SyncPendingResult, error) {
	if uc.lease != nil {
		release, acquired, err := uc.lease.Acquire(ctx)
		if err != nil {
			uc.logger.Errorw("failed to acquire sync lease", "error", err)
			return nil, errors.NewInternalError("sync lease unavailable", err.Error())
		}
		if !acquired {
			uc.metrics.SyncBatch(metrics.OutcomeInProgress)
			return nil, errors.NewSyncInProgressError("Another sync is in progress")
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				uc.logger.Warnw("failed to release sync lease", "error", err)
			}
		}()
	}

	records, err := uc.store.List(ctx)
	if err != nil {
		uc.metrics.SyncBatch(metrics.OutcomeStoreFailed)
		uc.logger.Errorw("failed to list pending records", "error", err)
		return nil, errors.NewInternalError("failed to read pending records")
	}

	if len(records) == 0 {
		uc.metrics.SyncBatch(metrics.OutcomeEmpty)
		uc.metrics.SetPending(0)
		return &SyncPendingResult{
			Results: []proof.RecordResult{},
			Removed: []string{},
			Message: NoPendingMessage,
		}, nil
	}

	batchID := id.NewSyncBatchID()
	log := uc.logger.With("batch_id", batchID)
	log.Infow("submitting offline batch", "records", len(records))

	outcome, err := uc.submitter.SubmitOfflineBatch(ctx, proof.Submissions(records))
	if err != nil {
		uc.metrics.SyncBatch(metrics.OutcomeTransport)
		log.Warnw("offline batch failed, queue left intact", "records", len(records), "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewTransportError("Sync failed", err.Error())
	}
	uc.metrics.SyncBatch(metrics.OutcomeSubmitted)

	remove, retain := Reconcile(records, outcome, uc.strict)
	if !outcome.HasPerRecordResults() {
		switch {
		case outcome.Accepted > 0 && uc.strict:
			log.Warnw("authority returned no per-record results; strict mode keeps the batch", "accepted", outcome.Accepted)
		case outcome.Accepted > 0:
			log.Infow("authority returned no per-record results; treating batch as accepted", "accepted", outcome.Accepted)
		}
	}

	removed := make([]string, 0, len(remove))
	var removeErrs []error
	for _, r := range remove {
		if err := uc.store.Remove(ctx, r.ID); err != nil {
			removeErrs = append(removeErrs, fmt.Errorf("remove %s: %w", r.ID, err))
			continue
		}
		removed = append(removed, r.ID)
	}
	uc.metrics.SyncRecords(len(removed), len(records)-len(removed))

	if n, err := uc.store.Count(ctx); err == nil {
		uc.metrics.SetPending(n)
	}

	results := outcome.Results
	if results == nil {
		results = []proof.RecordResult{}
	}
	res := &SyncPendingResult{
		BatchID:  batchID,
		Accepted: outcome.Accepted,
		Rejected: outcome.Rejected,
		Results:  results,
		Message:  outcome.Message,
		Removed:  removed,
		Retained: len(retain) + len(removeErrs),
	}

	log.Infow("offline batch reconciled",
		"accepted", outcome.Accepted,
		"rejected", outcome.Rejected,
		"removed", len(removed),
		"retained", res.Retained,
	)

	if len(removeErrs) > 0 {
		joined := stderrors.Join(removeErrs...)
		log.Errorw("failed to remove accepted records", "error", joined)
		return res, errors.NewInternalError("failed to remove accepted records", joined.Error())
	}
	return res, nil
}

// Job adapts the use case for the periodic scheduler; it reports removed records.
func (uc *SyncPendingUseCase) Job(ctx context.Context) (int, error) {
	res, err := uc.Execute(ctx)
	if errors.IsSyncInProgress(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(res.Removed), nil
}
