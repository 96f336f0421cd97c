package repository

import (
	"context"
	"sync"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

// MemoryPendingStore implements proof.Store in process memory. Records are
// copied on the way in and out so callers cannot mutate stored state.
type MemoryPendingStore struct {
	mu      sync.Mutex
	records map[string]*proof.Record
	byKey   map[proof.Key]string
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		records: make(map[string]*proof.Record),
		byKey:   make(map[proof.Key]string),
	}
}

func (s *MemoryPendingStore) Put(_ context.Context, record *proof.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return proof.ErrDuplicateAttempt
	}
	if _, ok := s.byKey[record.Key()]; ok {
		return proof.ErrDuplicateAttempt
	}

	c := *record
	snapshot := record.Submission()
	c.Snapshot = &snapshot
	s.records[record.ID] = &c
	s.byKey[record.Key()] = record.ID
	return nil
}

func (s *MemoryPendingStore) List(context.Context) ([]*proof.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*proof.Record, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryPendingStore) Get(_ context.Context, id string) (*proof.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (s *MemoryPendingStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[id]; ok {
		delete(s.byKey, r.Key())
		delete(s.records, id)
	}
	return nil
}

func (s *MemoryPendingStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*proof.Record)
	s.byKey = make(map[proof.Key]string)
	return nil
}

func (s *MemoryPendingStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}
