package notify

import (
	"context"
	"sync"
)

// Bus is the in-process Transport. Publish calls every subscriber
// synchronously, in subscription order, before returning.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []subscription
}

type subscription struct {
	id uint64
	h  Handler
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Publish(_ context.Context, c Change) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers))
	copy(subs, b.handlers)
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(c)
	}
	return nil
}

func (b *Bus) Subscribe(_ context.Context, h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.handlers {
		if s.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
