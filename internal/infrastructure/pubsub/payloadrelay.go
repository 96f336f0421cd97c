// Package pubsub relays broadcast payloads between agent processes over redis
// Pub/Sub so a separate display can follow a session started elsewhere.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

const payloadChannel = "rollcall:broadcast:payload"

// PayloadEvent is one issued payload as seen by followers.
type PayloadEvent struct {
	SessionID  string `json:"session_id"`
	Encoded    string `json:"encoded"`
	QRTime     *int64 `json:"qr_time,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id,omitempty"`
}

// RedisPayloadRelay publishes payloads and delivers them to subscribers.
type RedisPayloadRelay struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisPayloadRelay(client *redis.Client, logger logger.Interface) *RedisPayloadRelay {
	return &RedisPayloadRelay{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// Publish satisfies the broadcaster's PayloadSink.
func (r *RedisPayloadRelay) Publish(ctx context.Context, encoded string, payload proof.Payload) error {
	event := PayloadEvent{
		SessionID:  payload.SessionID,
		Encoded:    encoded,
		QRTime:     payload.QRTime,
		Timestamp:  biztime.NowUTC().Unix(),
		InstanceID: r.instanceID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payload event: %w", err)
	}

	if err := r.client.Publish(ctx, payloadChannel, data).Err(); err != nil {
		r.logger.Errorw("failed to publish payload", "session_id", payload.SessionID, "error", err)
		return fmt.Errorf("failed to publish payload: %w", err)
	}
	return nil
}

// Subscribe delivers events in publish order until ctx is done, reconnecting
// with exponential backoff. Events published by this relay are skipped.
func (r *RedisPayloadRelay) Subscribe(ctx context.Context, handler func(event PayloadEvent)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := r.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warnw("payload subscription disconnected, reconnecting",
			"channel", payloadChannel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (r *RedisPayloadRelay) subscribe(ctx context.Context, handler func(event PayloadEvent)) error {
	sub := r.client.Subscribe(ctx, payloadChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", payloadChannel, err)
	}
	r.logger.Infow("subscribed to payload channel", "channel", payloadChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				r.logger.Warnw("payload channel closed", "channel", payloadChannel)
				return nil
			}

			var event PayloadEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warnw("failed to unmarshal payload event", "error", err)
				continue
			}
			if event.InstanceID == r.instanceID {
				continue
			}
			handler(event)
		}
	}
}
