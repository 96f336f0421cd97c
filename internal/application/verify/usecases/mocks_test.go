package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

type mockProofStore struct {
	PutFunc    func(ctx context.Context, record *proof.Record) error
	ListFunc   func(ctx context.Context) ([]*proof.Record, error)
	GetFunc    func(ctx context.Context, id string) (*proof.Record, error)
	RemoveFunc func(ctx context.Context, id string) error
	ClearFunc  func(ctx context.Context) error
	CountFunc  func(ctx context.Context) (int64, error)
}

func (m *mockProofStore) Put(ctx context.Context, record *proof.Record) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, record)
	}
	return nil
}

func (m *mockProofStore) List(ctx context.Context) ([]*proof.Record, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockProofStore) Get(ctx context.Context, id string) (*proof.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProofStore) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *mockProofStore) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

func (m *mockProofStore) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

type mockIdentityStore struct {
	GetOrCreateDeviceIDFunc func(ctx context.Context) (string, error)
}

func (m *mockIdentityStore) GetOrCreateDeviceID(ctx context.Context) (string, error) {
	if m.GetOrCreateDeviceIDFunc != nil {
		return m.GetOrCreateDeviceIDFunc(ctx)
	}
	return "dev-1", nil
}

type mockVerificationMetrics struct {
	accepted, rejected, saved, duplicates int
	pending                               int64
}

func (m *mockVerificationMetrics) ObserveVerification(ok bool) {
	if ok {
		m.accepted++
	} else {
		m.rejected++
	}
}

func (m *mockVerificationMetrics) RecordSaved()       { m.saved++ }
func (m *mockVerificationMetrics) RecordDuplicate()   { m.duplicates++ }
func (m *mockVerificationMetrics) SetPending(n int64) { m.pending = n }
