package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

// BatchSubmitter delivers one batch to the remote authority.
type BatchSubmitter interface {
	SubmitOfflineBatch(ctx context.Context, batch []proof.Submission) (*proof.SyncOutcome, error)
}

// Lease grants cross-process exclusivity for one sync. A nil Lease means the
// process is the only writer.
type Lease interface {
	Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// SyncMetrics is satisfied by *metrics.Collector.
type SyncMetrics interface {
	SyncBatch(outcome string)
	SyncRecords(removed, retained int)
	SetPending(n int64)
}

type noopMetrics struct{}

func (noopMetrics) SyncBatch(string)     {}
func (noopMetrics) SyncRecords(int, int) {}
func (noopMetrics) SetPending(int64)     {}

type SyncPendingExecutor interface {
	Execute(ctx context.Context) (*SyncPendingResult, error)
}

type ListPendingExecutor interface {
	Execute(ctx context.Context) (*ListPendingResult, error)
}

type RemovePendingExecutor interface {
	Execute(ctx context.Context, id string) error
}

type ClearPendingExecutor interface {
	Execute(ctx context.Context) (*ClearPendingResult, error)
}
