package feed

import (
	"context"
	"sync"

	"retrouvaille/internal/domain"
)

const subscriberBuffer = 64

// memoryBroker fans events out in-process. Used in tests and when no
// Redis client is configured.
type memoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*memorySub
}

type memorySub struct {
	filter Filter
	events chan domain.ChangeEvent
	closed bool
}

func NewMemoryBroker() Broker {
	return &memoryBroker{subs: make(map[int]*memorySub)}
}

func (b *memoryBroker) Publish(ctx context.Context, event domain.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.closed || !sub.filter.Matches(event) {
			continue
		}
		// A subscriber that stops draining loses events rather than
		// blocking publishers; it must refresh from the store.
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

func (b *memoryBroker) Subscribe(ctx context.Context, filter Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	sub := &memorySub{
		filter: filter,
		events: make(chan domain.ChangeEvent, subscriberBuffer),
	}
	b.subs[id] = sub

	return &Subscription{
		events: sub.events,
		closeFn: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub.closed {
				return
			}
			sub.closed = true
			delete(b.subs, id)
			close(sub.events)
		},
	}
}
