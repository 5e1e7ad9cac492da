// Package events provides in-process pub/sub for store mutations.
package events

import (
	"sync"
	"time"

	"inkbook/internal/model"
)

// Event types published by the booking service.
const (
	TypeBookingCreated = "booking.created"
	TypeBookingUpdated = "booking.updated"
	TypeBookingDeleted = "booking.deleted"
	TypeStoreImported  = "store.imported"
)

// Event describes one store mutation. Booking is zero for whole-store
// events such as an import; Count carries the store size after the
// mutation.
type Event struct {
	Type    string
	Booking model.Booking
	Count   int
	At      time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus is an in-process publish/subscribe hub. Handlers run synchronously
// in publish order; the caller decides any concurrency model.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.At.IsZero() {
		event.At = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}
