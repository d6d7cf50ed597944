package events

import (
	"context"
	"sync"
	"time"

	"housie/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeTicketPurchased   EventType = "ticket_purchased"
	EventTypeTicketValidated   EventType = "ticket_validated"
	EventTypeTicketRegenerated EventType = "ticket_regenerated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// TicketPurchasedEvent is published once a freshly generated ticket is stored
type TicketPurchasedEvent struct {
	TicketID  int64
	DiscordID int64
	GuildID   int64
	Numbers   []int
	Price     int64
	Duration  time.Duration // time spent inside the purchase transaction
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// TicketValidatedEvent carries the verdict for a stored ticket
type TicketValidatedEvent struct {
	TicketID int64
	Valid    bool
	Issues   []string
}

func (e TicketValidatedEvent) Type() EventType {
	return EventTypeTicketValidated
}

// TicketRegeneratedEvent is published when a non-compliant ticket is
// replaced wholesale with new numbers.
type TicketRegeneratedEvent struct {
	TicketID   int64
	DiscordID  int64
	OldNumbers []int
	NewNumbers []int
	Issues     []string
}

func (e TicketRegeneratedEvent) Type() EventType {
	return EventTypeTicketRegenerated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus dispatches events to subscribed handlers. Handlers run on their own
// goroutines and a panicking handler is logged, not propagated.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish emits immediately; it lets the bus stand in where a transactional
// publisher is expected.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, index int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": index,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a pending-event buffer in front of real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits queued events after a successful commit. Handlers get a
// background context since the transaction context may already be done.
func (b *TransactionalBus) Flush() {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional events")

	for _, ev := range b.pending {
		b.real.Emit(context.Background(), ev)
	}
	b.pending = nil
}

// Discard drops queued events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
