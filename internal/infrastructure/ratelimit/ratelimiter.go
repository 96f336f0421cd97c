// Package ratelimit throttles scan submissions per client with sliding windows
// kept in redis sorted sets.
package ratelimit

import "context"

// Limits are per-window request ceilings. Zero disables a window.
type Limits struct {
	PerMinute int
	PerHour   int
}

func (l Limits) Enabled() bool {
	return l.PerMinute > 0 || l.PerHour > 0
}

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
