package events

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus used by tests and single-node deployments.
// Slow subscribers are skipped rather than blocking the publisher, matching
// the best-effort delivery contract.
type MemoryBus struct {
	mu     sync.RWMutex
	groups map[string]map[int]chan Message
	nextID int
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{groups: make(map[string]map[int]chan Message)}
}

// Publish delivers the message to every current subscriber of the group.
func (b *MemoryBus) Publish(_ context.Context, group string, msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.groups[group] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe joins the group until the returned subscription is closed.
func (b *MemoryBus) Subscribe(_ context.Context, group string) (*Subscription, error) {
	ch := make(chan Message, 16)

	b.mu.Lock()
	if b.groups[group] == nil {
		b.groups[group] = make(map[int]chan Message)
	}
	id := b.nextID
	b.nextID++
	b.groups[group][id] = ch
	b.mu.Unlock()

	var once sync.Once
	return &Subscription{
		C: ch,
		close: func() {
			once.Do(func() {
				b.mu.Lock()
				delete(b.groups[group], id)
				b.mu.Unlock()
				close(ch)
			})
		},
	}, nil
}
