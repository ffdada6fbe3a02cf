package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"wanksy/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsAdjusted  EventType = "points_adjusted"
	EventTypeWalletLinked    EventType = "wallet_linked"
	EventTypeRolesReconciled EventType = "roles_reconciled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsAdjustmentKind names what produced a points change
type PointsAdjustmentKind string

const (
	AdjustmentTransferOut PointsAdjustmentKind = "transfer_out"
	AdjustmentTransferIn  PointsAdjustmentKind = "transfer_in"
	AdjustmentFine        PointsAdjustmentKind = "fine"
)

// PointsAdjustedEvent represents a moola balance change that occurred
type PointsAdjustedEvent struct {
	DiscordID    int64
	OldPoints    int64
	NewPoints    int64
	ChangeAmount int64
	Kind         PointsAdjustmentKind
}

func (e PointsAdjustedEvent) Type() EventType {
	return EventTypePointsAdjusted
}

// WalletLinkedEvent represents a completed wallet link
type WalletLinkedEvent struct {
	DiscordID int64
	Address   string
}

func (e WalletLinkedEvent) Type() EventType {
	return EventTypeWalletLinked
}

// RolesReconciledEvent represents a finished threshold reconciliation run
type RolesReconciledEvent struct {
	Team   models.Team
	DryRun bool
	Log    models.RoleUpdateLog
}

func (e RolesReconciledEvent) Type() EventType {
	return EventTypeRolesReconciled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
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

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously so a slow subscriber cannot stall the emitter
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events until the unit of work commits, then flushes
// them to the underlying bus. Discarded on rollback.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
