package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/rollcall/internal/shared/biztime"
)

const keyPrefix = "rollcall:ratelimit"

type RedisLimiter struct {
	client *redis.Client
	limits Limits
	clock  biztime.Clock
}

func NewRedisLimiter(client *redis.Client, limits Limits, clock biztime.Clock) *RedisLimiter {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &RedisLimiter{client: client, limits: limits, clock: clock}
}

// Allow records one attempt for key and reports whether every window still has room.
// A denied attempt is still counted.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.clock.Now()

	windows := []struct {
		duration time.Duration
		limit    int
	}{
		{time.Minute, l.limits.PerMinute},
		{time.Hour, l.limits.PerHour},
	}

	for _, window := range windows {
		if window.limit <= 0 {
			continue
		}

		allowed, err := l.checkWindow(ctx, key, window.duration, window.limit, now)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}

	return true, nil
}

func (l *RedisLimiter) checkWindow(ctx context.Context, key string, window time.Duration, limit int, now time.Time) (bool, error) {
	redisKey := l.key(key, window)
	windowStart := now.Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit window: %w", err)
	}

	return zcard.Val() < int64(limit), nil
}

// Reset forgets every window of key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	keys := []string{l.key(key, time.Minute), l.key(key, time.Hour)}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for %s: %w", key, err)
	}
	return nil
}

func (l *RedisLimiter) key(identifier string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, identifier, window.String())
}
