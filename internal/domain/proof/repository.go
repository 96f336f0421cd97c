package proof

import "context"

// Store is the durable local queue of unsynced proofs.
// Writes are serialized; a key is never mutated by two writers at once.
type Store interface {
	// Put inserts a record. It returns ErrDuplicateAttempt when a record with the
	// same (SessionID, StudentID) already exists; the existing record is kept.
	Put(ctx context.Context, record *Record) error

	// List returns every queued record in no particular order.
	List(ctx context.Context) ([]*Record, error)

	// Get returns the record with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Remove deletes a record. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Count returns the number of queued records.
	Count(ctx context.Context) (int64, error)
}
