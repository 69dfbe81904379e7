package feed

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"retrouvaille/internal/domain"
)

const changeChannel = "retrouvaille:changes"

// redisBroker carries change events over a Redis pub/sub channel so
// every API instance sees mutations committed by any of them.
type redisBroker struct {
	client *redis.Client
}

// NewBroker returns a Redis-backed broker, or the in-process one when
// no client is configured.
func NewBroker(client *redis.Client) Broker {
	if client == nil {
		return NewMemoryBroker()
	}
	return &redisBroker{client: client}
}

func (b *redisBroker) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, changeChannel, payload).Err()
}

func (b *redisBroker) Subscribe(ctx context.Context, filter Filter) *Subscription {
	pubsub := b.client.Subscribe(ctx, changeChannel)
	events := make(chan domain.ChangeEvent, subscriberBuffer)

	var once sync.Once
	done := make(chan struct{})

	go func() {
		defer close(events)
		ch := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("feed: dropping malformed change event: %v", err)
					continue
				}
				if !filter.Matches(ev) {
					continue
				}
				select {
				case events <- ev:
				default:
				}
			}
		}
	}()

	return &Subscription{
		events: events,
		closeFn: func() {
			once.Do(func() {
				close(done)
				_ = pubsub.Close()
			})
		},
	}
}
