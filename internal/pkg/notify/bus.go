// Package notify fans out "records changed" signals per user.
package notify

import (
	"context"
	"sync"
)

// Handler is invoked once per change notification
type Handler func()

// Bus delivers change notifications for a user's records. A notification
// carries no payload; subscribers re-read the current snapshot.
type Bus interface {
	Publish(ctx context.Context, userID string) error
	Subscribe(ctx context.Context, userID string, fn Handler) (unsubscribe func(), err error)
	Close() error
}

// MemoryBus delivers notifications inside the process. Handlers run
// synchronously on the publishing goroutine and must not block.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]Handler
}

// NewMemoryBus creates an empty in-process bus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[uint64]Handler)}
}

// Publish notifies every subscriber of userID
func (b *MemoryBus) Publish(_ context.Context, userID string) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[userID]))
	for _, fn := range b.subs[userID] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

// Subscribe registers fn for userID. The returned function is idempotent.
func (b *MemoryBus) Subscribe(_ context.Context, userID string, fn Handler) (func(), error) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[uint64]Handler)
	}
	b.subs[userID][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
		})
	}, nil
}

// Subscribers returns the number of live subscriptions for userID
func (b *MemoryBus) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

// Close drops every subscription
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	b.subs = make(map[string]map[uint64]Handler)
	b.mu.Unlock()
	return nil
}
