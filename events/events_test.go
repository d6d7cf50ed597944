package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("event was not received within timeout")
		return nil
	}
}

func TestBus_DeliversToSubscribersOfType(t *testing.T) {
	bus := NewBus()
	purchased := make(chan Event, 1)
	regenerated := make(chan Event, 1)

	bus.Subscribe(EventTypeTicketPurchased, func(ctx context.Context, event Event) {
		purchased <- event
	})
	bus.Subscribe(EventTypeTicketRegenerated, func(ctx context.Context, event Event) {
		regenerated <- event
	})

	bus.Emit(context.Background(), TicketPurchasedEvent{TicketID: 7, DiscordID: 42, Numbers: []int{1, 2}})

	ev := receive(t, purchased)
	got, ok := ev.(TicketPurchasedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.TicketID)
	assert.Equal(t, []int{1, 2}, got.Numbers)

	select {
	case <-regenerated:
		t.Fatal("regenerated handler should not run")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewBus()
	done := make(chan Event, 1)

	bus.Subscribe(EventTypeTicketValidated, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeTicketValidated, func(ctx context.Context, event Event) {
		done <- event
	})

	assert.NotPanics(t, func() {
		bus.Publish(TicketValidatedEvent{TicketID: 1, Valid: true})
	})
	receive(t, done)
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	var mu sync.Mutex
	var received []int64
	var wg sync.WaitGroup

	bus.Subscribe(EventTypeTicketRegenerated, func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.(TicketRegeneratedEvent).TicketID)
	})

	txBus.Publish(TicketRegeneratedEvent{TicketID: 1})
	txBus.Discard()
	assert.Equal(t, 0, txBus.Pending())

	wg.Add(2)
	txBus.Publish(TicketRegeneratedEvent{TicketID: 2})
	txBus.Publish(TicketRegeneratedEvent{TicketID: 3})
	assert.Equal(t, 2, txBus.Pending())

	mu.Lock()
	assert.Empty(t, received, "nothing is delivered before flush")
	mu.Unlock()

	txBus.Flush()
	wg.Wait()

	assert.Equal(t, 0, txBus.Pending())
	assert.ElementsMatch(t, []int64{2, 3}, received)
}
