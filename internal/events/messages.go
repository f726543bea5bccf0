package events

// Event types dispatched in this system.
const (
	TypeCollectionChanged = "collection:changed"
	TypeDeckChanged       = "deck:changed"
	TypeCatalogUpdated    = "catalog:updated"
	TypeArchetypeUnlocked = "archetype:unlocked"
)

// CollectionChangeEvent is the payload for collection:changed events.
// Emitted whenever cards are added to or removed from a collection.
type CollectionChangeEvent struct {
	CollectionID  string `json:"collectionId"`
	CardID        string `json:"cardId"`
	DeltaQuantity int    `json:"deltaQuantity"`
}

// DeckChangedEvent is the payload for deck:changed events.
type DeckChangedEvent struct {
	DeckID string `json:"deckId"`
	CardID string `json:"cardId,omitempty"`
}

// CatalogUpdatedEvent is the payload for catalog:updated events, emitted
// when the card catalog bulk file is reloaded.
type CatalogUpdatedEvent struct {
	Cards int `json:"cards"` // number of cards loaded
}

// ArchetypeUnlockedEvent is the payload for archetype:unlocked events,
// emitted when a collection change makes new archetypes buildable.
type ArchetypeUnlockedEvent struct {
	CollectionID string   `json:"collectionId"`
	Format       string   `json:"format"`
	Unlocked     []string `json:"unlocked"` // newly viable archetype names
	ViableCount  int      `json:"viableCount"`
}
