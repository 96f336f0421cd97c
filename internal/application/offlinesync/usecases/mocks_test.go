package usecases

import (
	"context"
	"sync"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

type mockBatchSubmitter struct {
	mu                     sync.Mutex
	calls                  int
	batches                [][]proof.Submission
	SubmitOfflineBatchFunc func(ctx context.Context, batch []proof.Submission) (*proof.SyncOutcome, error)
}

func (m *mockBatchSubmitter) SubmitOfflineBatch(ctx context.Context, batch []proof.Submission) (*proof.SyncOutcome, error) {
	m.mu.Lock()
	m.calls++
	m.batches = append(m.batches, batch)
	m.mu.Unlock()

	if m.SubmitOfflineBatchFunc != nil {
		return m.SubmitOfflineBatchFunc(ctx, batch)
	}
	return &proof.SyncOutcome{}, nil
}

func (m *mockBatchSubmitter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockLease struct {
	AcquireFunc func(ctx context.Context) (func(context.Context) error, bool, error)
	released    int
}

func (m *mockLease) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx)
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, true, nil
}

type failingRemoveStore struct {
	proof.Store
	failID string
}

func (s *failingRemoveStore) Remove(ctx context.Context, id string) error {
	if id == s.failID {
		return context.DeadlineExceeded
	}
	return s.Store.Remove(ctx, id)
}

type mockSyncMetrics struct {
	outcomes []string
	removed  int
	retained int
	pending  int64
}

func (m *mockSyncMetrics) SyncBatch(outcome string) { m.outcomes = append(m.outcomes, outcome) }
func (m *mockSyncMetrics) SyncRecords(removed, retained int) {
	m.removed += removed
	m.retained += retained
}
func (m *mockSyncMetrics) SetPending(n int64) { m.pending = n }
