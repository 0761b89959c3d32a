package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus implements Bus on top of Redis Pub/Sub channels. Group names map
// directly to channel names, so fanout works across processes.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBus wraps an existing Redis client.
func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBus{client: client, logger: logger}
}

// Publish marshals the message and publishes it to the group channel.
func (b *RedisBus) Publish(ctx context.Context, group string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", group, err)
	}
	if err := b.client.Publish(ctx, group, payload).Err(); err != nil {
		return fmt.Errorf("publish event to %s: %w", group, err)
	}
	return nil
}

// Subscribe joins the group channel and decodes incoming payloads until the
// subscription is closed or the context is cancelled.
func (b *RedisBus) Subscribe(ctx context.Context, group string) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, group)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", group, err)
	}

	out := make(chan Message, 16)
	go func() {
		defer close(out)
		for raw := range pubsub.Channel() {
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				b.logger.Warn("dropping malformed event payload",
					zap.String("group", group), zap.Error(err))
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Subscription{
		C:     out,
		close: func() { _ = pubsub.Close() },
	}, nil
}
