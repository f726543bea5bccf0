// Package events provides the change feed connecting collection mutations
// to the progressive-update tracker and the transport layer.
package events

import (
	"context"
	"log"
	"sync"
)

// Event is a domain event delivered to observers.
type Event struct {
	// Type is the event type (e.g. "collection:changed").
	Type string

	// Data is the typed event payload (one of the structs in messages.go).
	Data any

	// Context carries the execution context of the emitting call.
	Context context.Context
}

// Observer receives dispatched events. Implementations filter the event
// types they care about via ShouldHandle.
type Observer interface {
	// OnEvent handles one event. Errors are logged, never propagated.
	OnEvent(event Event) error

	// Name returns a human-readable observer name for logging.
	Name() string

	// ShouldHandle reports whether this observer wants the event type.
	ShouldHandle(eventType string) bool
}

// Dispatcher distributes events to registered observers. Safe for
// concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer. It will receive all future events it elects
// to handle.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	log.Printf("[Dispatcher] Registered observer: %s", observer.Name())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. An
// observer error is logged and dispatch continues to the rest.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[Dispatcher] Observer %s failed on %s: %v",
				observer.Name(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// TypedData extracts the payload of an event as T.
func TypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}
