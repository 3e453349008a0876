// Package events provides in-process pub/sub for booking lifecycle events.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of event published on the bus.
type Type string

const (
	TypeRoomCreated      Type = "room.created"
	TypeRoomRenamed      Type = "room.renamed"
	TypeRoomDeleted      Type = "room.deleted"
	TypeBookingCreated   Type = "booking.created"
	TypeBookingCancelled Type = "booking.cancelled"
)

// Event is a lightweight domain event describing a registry or booking
// state change. Fields not relevant to the type are left zero.
type Event struct {
	ID            string
	Type          Type
	Room          string
	NewRoom       string // set for room.renamed
	WorkspaceID   string
	UserID        string
	BookingRef    string
	BookingTime   time.Time
	DurationHours int
	OccurredAt    time.Time
}

// Handler reacts to an event. Handlers run synchronously on the
// publisher's goroutine; the caller decides the concurrency model.
type Handler func(ctx context.Context, event Event) error

// Bus is an in-process publish/subscribe hub.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Type][]Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every known event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range []Type{
		TypeRoomCreated, TypeRoomRenamed, TypeRoomDeleted,
		TypeBookingCreated, TypeBookingCancelled,
	} {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type. Handler errors do not
// stop delivery to the remaining subscribers.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
}
