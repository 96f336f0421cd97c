package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/rollcall/internal/shared/id"
)

const (
	// syncLeaseKeyPrefix is the prefix for sync lease keys
	// Format: rollcall:sync_lease:{scope}
	syncLeaseKeyPrefix = "rollcall:sync_lease:"

	DefaultSyncLeaseTTL = time.Minute
)

// releaseScript deletes the lease only while it still holds our token, so an
// expired lease taken over by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SyncLease guarantees a single in-flight sync per scope across processes.
type SyncLease struct {
	client *redis.Client
	scope  string
	ttl    time.Duration
}

// NewSyncLease scopes the lease, typically to the local store it protects.
func NewSyncLease(client *redis.Client, scope string, ttl time.Duration) *SyncLease {
	if ttl <= 0 {
		ttl = DefaultSyncLeaseTTL
	}
	return &SyncLease{client: client, scope: scope, ttl: ttl}
}

func (l *SyncLease) key() string {
	return syncLeaseKeyPrefix + l.scope
}

// Acquire takes the lease with SetNX. When another holder has it, Acquire
// returns acquired=false and a nil release.
func (l *SyncLease) Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error) {
	token, err := id.Generate(24)
	if err != nil {
		return nil, false, err
	}

	ok, err := l.client.SetNX(ctx, l.key(), token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire sync lease: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key()}, token).Err(); err != nil {
			return fmt.Errorf("failed to release sync lease: %w", err)
		}
		return nil
	}, true, nil
}

// TTL returns the remaining lease time, or zero when no lease is held.
func (l *SyncLease) TTL(ctx context.Context) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, l.key()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read sync lease ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
