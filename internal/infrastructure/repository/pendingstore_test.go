package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/migration"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration.Migrate(db))
	return db
}

func newRecord(sessionID, studentID string) *proof.Record {
	lat, lng := 12.97, 77.59
	return &proof.Record{
		ID:              proof.RecordID(sessionID, studentID),
		StudentID:       studentID,
		SessionID:       sessionID,
		WindowTime:      88_000_000,
		Token:           "tok-" + sessionID,
		Proof:           proof.DeriveCommitment(studentID, sessionID, "tok-"+sessionID, "dev"),
		ConfidenceScore: 100,
		DeviceID:        "dev",
		StudentLat:      &lat,
		StudentLng:      &lng,
		VerifiedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func storesUnderTest(t *testing.T) map[string]proof.Store {
	return map[string]proof.Store{
		"sqlite": NewPendingAttendanceRepository(setupTestDB(t), logger.NewNop()),
		"memory": NewMemoryPendingStore(),
	}
}

func TestPendingStore_Put(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("first attempt is stored", func(t *testing.T) {
				require.NoError(t, store.Put(ctx, newRecord("S1", "A")))

				got, err := store.Get(ctx, "S1_A")
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "A", got.StudentID)
				assert.Equal(t, 12.97, *got.StudentLat)
				require.NotNil(t, got.Snapshot)
				assert.Equal(t, newRecord("S1", "A").Submission(), *got.Snapshot)
			})

			t.Run("second attempt for same pair is a duplicate", func(t *testing.T) {
				second := newRecord("S1", "A")
				second.ConfidenceScore = 30

				err := store.Put(ctx, second)
				assert.ErrorIs(t, err, proof.ErrDuplicateAttempt)

				got, err := store.Get(ctx, "S1_A")
				require.NoError(t, err)
				assert.Equal(t, 100, got.ConfidenceScore)
			})

			t.Run("same pair under another id is still a duplicate", func(t *testing.T) {
				r := newRecord("S1", "A")
				r.ID = "legacy-id"
				assert.ErrorIs(t, store.Put(ctx, r), proof.ErrDuplicateAttempt)
			})

			t.Run("other student in same session is allowed", func(t *testing.T) {
				require.NoError(t, store.Put(ctx, newRecord("S1", "B")))
				count, err := store.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(2), count)
			})
		})
	}
}

func TestPendingStore_UnderscoreIDsDoNotCollide(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, newRecord("a_b", "c")))
			require.NoError(t, store.Put(ctx, newRecord("a", "b_c")))

			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})
	}
}

func TestPendingStore_RemoveAndClear(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, newRecord("S1", "A")))
			require.NoError(t, store.Put(ctx, newRecord("S1", "B")))
			require.NoError(t, store.Put(ctx, newRecord("S2", "A")))

			require.NoError(t, store.Remove(ctx, "S1_A"))
			require.NoError(t, store.Remove(ctx, "S1_A"))
			require.NoError(t, store.Remove(ctx, "never-existed"))

			list, err := store.List(ctx)
			require.NoError(t, err)
			ids := make([]string, 0, len(list))
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			assert.ElementsMatch(t, []string{"S1_B", "S2_A"}, ids)

			require.NoError(t, store.Put(ctx, newRecord("S1", "A")), "removed pair may be captured again")

			require.NoError(t, store.Clear(ctx))
			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)

			got, err := store.Get(ctx, "S1_B")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestPendingStore_ConcurrentPutsKeepOneAttempt(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					r := newRecord("S1", "A")
					r.ConfidenceScore = i
					errs <- store.Put(ctx, r)
				}(i)
			}
			wg.Wait()
			close(errs)

			var ok, dup int
			for err := range errs {
				switch {
				case err == nil:
					ok++
				default:
					assert.ErrorIs(t, err, proof.ErrDuplicateAttempt, fmt.Sprint(err))
					dup++
				}
			}
			assert.Equal(t, 1, ok)
			assert.Equal(t, 7, dup)
		})
	}
}

func TestMemoryPendingStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPendingStore()
	r := newRecord("S1", "A")
	require.NoError(t, s.Put(ctx, r))

	r.ConfidenceScore = 1
	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ConfidenceScore)
}

func TestDeviceIdentityRepository(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)

	repo := NewDeviceIdentityRepository(gdb, logger.NewNop())
	calls := 0
	repo.newID = func() string {
		calls++
		return fmt.Sprintf("dev-%d", calls)
	}

	first, err := repo.GetOrCreateDeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", first)

	again, err := NewDeviceIdentityRepository(gdb, logger.NewNop()).GetOrCreateDeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestMemoryDeviceIdentityIsStable(t *testing.T) {
	m := NewMemoryDeviceIdentity()
	a, _ := m.GetOrCreateDeviceID(context.Background())
	b, _ := m.GetOrCreateDeviceID(context.Background())
	assert.Equal(t, a, b)
	assert.Len(t, a, 36)
}
