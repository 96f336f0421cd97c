package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

func TestRedisPayloadRelay_DeliversToOtherInstances(t *testing.T) {
	client := setupTestRedis(t)
	publisher := NewRedisPayloadRelay(client, logger.NewNop())
	follower := NewRedisPayloadRelay(client, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []PayloadEvent
	done := make(chan error, 1)
	go func() {
		done <- follower.Subscribe(ctx, func(event PayloadEvent) {
			mu.Lock()
			received = append(received, event)
			mu.Unlock()
		})
	}()

	qr := int64(176_000_000)
	payload := proof.Payload{Version: 1, SessionID: "S1", QRTime: &qr}

	// Publish until the subscription is live.
	require.Eventually(t, func() bool {
		_ = publisher.Publish(ctx, "encoded-1", payload)
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	first := received[0]
	mu.Unlock()
	assert.Equal(t, "S1", first.SessionID)
	assert.Equal(t, "encoded-1", first.Encoded)
	require.NotNil(t, first.QRTime)
	assert.Equal(t, qr, *first.QRTime)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestRedisPayloadRelay_SkipsOwnEvents(t *testing.T) {
	client := setupTestRedis(t)
	relay := NewRedisPayloadRelay(client, logger.NewNop())
	other := NewRedisPayloadRelay(client, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var sessions []string
	go func() {
		_ = relay.Subscribe(ctx, func(event PayloadEvent) {
			mu.Lock()
			sessions = append(sessions, event.SessionID)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		_ = relay.Publish(ctx, "own", proof.Payload{SessionID: "OWN"})
		_ = other.Publish(ctx, "theirs", proof.Payload{SessionID: "THEIRS"})
		mu.Lock()
		defer mu.Unlock()
		return len(sessions) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, sessions, "OWN")
}
