package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrouvaille/internal/domain"
)

func declarationEvent(op domain.ChangeOp, entityID, ownerID uuid.UUID) domain.ChangeEvent {
	return domain.ChangeEvent{
		Entity:   domain.EntityDeclaration,
		EntityID: entityID,
		Op:       op,
		OwnerID:  ownerID,
		At:       time.Now(),
	}
}

func receive(t *testing.T, sub *Subscription) domain.ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.ChangeEvent{}
	}
}

func TestMemoryBroker_DeliversInPublishOrder(t *testing.T) {
	broker := NewMemoryBroker()
	sub := broker.Subscribe(context.Background(), Filter{})
	defer sub.Close()

	entityID := uuid.New()
	ownerID := uuid.New()
	ops := []domain.ChangeOp{domain.OpCreated, domain.OpUpdated, domain.OpDeleted}
	for _, op := range ops {
		require.NoError(t, broker.Publish(context.Background(), declarationEvent(op, entityID, ownerID)))
	}

	for _, want := range ops {
		ev := receive(t, sub)
		assert.Equal(t, want, ev.Op)
		assert.Equal(t, entityID, ev.EntityID)
	}
}

func TestMemoryBroker_FilterByEntityKind(t *testing.T) {
	broker := NewMemoryBroker()
	sub := broker.Subscribe(context.Background(), Filter{Entities: []domain.EntityKind{domain.EntityVerification}})
	defer sub.Close()

	require.NoError(t, broker.Publish(context.Background(), declarationEvent(domain.OpCreated, uuid.New(), uuid.New())))

	verifID := uuid.New()
	require.NoError(t, broker.Publish(context.Background(), domain.ChangeEvent{
		Entity:   domain.EntityVerification,
		EntityID: verifID,
		Op:       domain.OpCreated,
		OwnerID:  uuid.New(),
		At:       time.Now(),
	}))

	ev := receive(t, sub)
	assert.Equal(t, domain.EntityVerification, ev.Entity)
	assert.Equal(t, verifID, ev.EntityID)
}

func TestMemoryBroker_FilterByEntityIDAndOwner(t *testing.T) {
	broker := NewMemoryBroker()
	entityID := uuid.New()
	ownerID := uuid.New()

	byEntity := broker.Subscribe(context.Background(), Filter{EntityID: &entityID})
	defer byEntity.Close()
	byOwner := broker.Subscribe(context.Background(), Filter{OwnerID: &ownerID})
	defer byOwner.Close()

	require.NoError(t, broker.Publish(context.Background(), declarationEvent(domain.OpUpdated, uuid.New(), uuid.New())))
	require.NoError(t, broker.Publish(context.Background(), declarationEvent(domain.OpUpdated, entityID, ownerID)))

	assert.Equal(t, entityID, receive(t, byEntity).EntityID)
	assert.Equal(t, ownerID, receive(t, byOwner).OwnerID)
}

func TestMemoryBroker_CloseStopsDelivery(t *testing.T) {
	broker := NewMemoryBroker()
	sub := broker.Subscribe(context.Background(), Filter{})

	sub.Close()
	sub.Close() // idempotent

	require.NoError(t, broker.Publish(context.Background(), declarationEvent(domain.OpCreated, uuid.New(), uuid.New())))

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestMemoryBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	broker := NewMemoryBroker()
	sub := broker.Subscribe(context.Background(), Filter{})
	defer sub.Close()

	// Nothing drains; publishing must still return once the buffer is full.
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, broker.Publish(context.Background(), declarationEvent(domain.OpUpdated, uuid.New(), uuid.New())))
	}

	assert.Len(t, sub.Events(), subscriberBuffer)
}
