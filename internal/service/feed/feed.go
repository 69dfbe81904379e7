package feed

import (
	"context"

	"github.com/google/uuid"

	"retrouvaille/internal/domain"
)

// Broker is the change-propagation layer: every committed declaration,
// verification or match mutation is published once and fanned out to
// live subscribers. Delivery is in commit order per document; there is
// no ordering across documents.
type Broker interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Subscribe(ctx context.Context, filter Filter) *Subscription
}

// Filter restricts which events a subscription receives. Empty fields
// match everything.
type Filter struct {
	Entities []domain.EntityKind
	EntityID *uuid.UUID
	OwnerID  *uuid.UUID
}

func (f Filter) Matches(ev domain.ChangeEvent) bool {
	if len(f.Entities) > 0 {
		found := false
		for _, e := range f.Entities {
			if e == ev.Entity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.EntityID != nil && *f.EntityID != ev.EntityID {
		return false
	}
	if f.OwnerID != nil && *f.OwnerID != ev.OwnerID {
		return false
	}
	return true
}

// Subscription delivers matching events until Close is called. Close
// stops delivery immediately; events published afterwards are dropped.
type Subscription struct {
	events  chan domain.ChangeEvent
	closeFn func()
}

func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

func (s *Subscription) Close() {
	s.closeFn()
}
