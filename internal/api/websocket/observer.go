package websocket

import (
	"log"

	"github.com/deckwise/deck-advisor/internal/events"
)

// Observer forwards domain events to connected WebSocket clients.
type Observer struct {
	name string
	hub  *Hub
}

// NewObserver creates an observer that broadcasts events through the hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent forwards the event to all connected WebSocket clients.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] Cannot emit event %s: hub is nil", o.name, event.Type)
		return nil
	}

	o.hub.Broadcast(Message{
		Type: event.Type,
		Data: event.Data,
	})
	log.Printf("[%s] Broadcast event to %d clients: %s", o.name, o.hub.ClientCount(), event.Type)

	return nil
}

// Name returns the observer's name.
func (o *Observer) Name() string {
	return o.name
}

// ShouldHandle reports whether this event type is forwarded to clients.
// The catalog update event carries the full card payload and is not
// interesting to UIs, so it stays internal.
func (o *Observer) ShouldHandle(eventType string) bool {
	return eventType != events.TypeCatalogUpdated
}

var _ events.Observer = (*Observer)(nil)
