package events

import (
	"context"
	"fmt"
)

// Broadcast group names. Publishing to a group reaches every currently
// connected subscriber of that group; there is no persistence or replay.
const (
	GroupWorkflow = "workflow"
	GroupActivity = "activity"
)

// Message types carried in the envelope, matching the group they are
// published on.
const (
	TypeWorkflow = "workflow_message"
	TypeActivity = "activity_message"
	TypeUser     = "user_message"
)

// UserGroup returns the per-user broadcast group for the given user id.
func UserGroup(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Message is the JSON envelope delivered to subscribers.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Subscription is a live membership in a broadcast group. C is closed when
// the subscription ends.
type Subscription struct {
	C     <-chan Message
	close func()
}

// Close leaves the group and releases resources. Safe to call twice.
func (s *Subscription) Close() {
	if s != nil && s.close != nil {
		s.close()
		s.close = nil
	}
}

// Bus is a named-group publish/subscribe mechanism. Delivery is best-effort:
// a publish with no subscribers is not an error, and stored state is always
// authoritative over anything received on the bus.
type Bus interface {
	Publish(ctx context.Context, group string, msg Message) error
	Subscribe(ctx context.Context, group string) (*Subscription, error)
}

// Instrument wraps a bus so every successful publish invokes onPublish with
// the group name. Subscriptions pass through untouched.
func Instrument(bus Bus, onPublish func(group string)) Bus {
	if onPublish == nil {
		return bus
	}
	return &instrumentedBus{inner: bus, onPublish: onPublish}
}

type instrumentedBus struct {
	inner     Bus
	onPublish func(group string)
}

func (b *instrumentedBus) Publish(ctx context.Context, group string, msg Message) error {
	if err := b.inner.Publish(ctx, group, msg); err != nil {
		return err
	}
	b.onPublish(group)
	return nil
}

func (b *instrumentedBus) Subscribe(ctx context.Context, group string) (*Subscription, error) {
	return b.inner.Subscribe(ctx, group)
}
