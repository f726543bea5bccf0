// Package deck defines the deck model shared by validation, scoring, and the
// advisor pipeline.
package deck

import "context"

// Role identifies which partition of a deck a card entry belongs to.
type Role string

const (
	RoleMainboard Role = "mainboard"
	RoleSideboard Role = "sideboard"
	RoleCommander Role = "commander"
)

// Card is one entry in a deck: a card reference, a quantity, and the
// partition it sits in. Order is irrelevant.
type Card struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Role     Role   `json:"role"`
}

// Deck is a deck header plus its card entries. Quantities may violate format
// rules while a deck is being edited; validation is the format adapter's job.
type Deck struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Format        string   `json:"format"`
	CollectionID  string   `json:"collectionId,omitempty"`
	CommanderID   string   `json:"commanderId,omitempty"`
	ColorIdentity []string `json:"colorIdentity,omitempty"`
	Strategy      string   `json:"strategy,omitempty"`
	Cards         []Card   `json:"cards"`
}

// MainboardSize returns the total quantity of mainboard cards.
func (d *Deck) MainboardSize() int {
	total := 0
	for _, c := range d.Cards {
		if c.Role == RoleMainboard {
			total += c.Quantity
		}
	}
	return total
}

// SideboardSize returns the total quantity of sideboard cards.
func (d *Deck) SideboardSize() int {
	total := 0
	for _, c := range d.Cards {
		if c.Role == RoleSideboard {
			total += c.Quantity
		}
	}
	return total
}

// QuantityOf returns the combined mainboard and commander quantity of a card.
// Sideboard copies do not count against singleton rules.
func (d *Deck) QuantityOf(cardID string) int {
	total := 0
	for _, c := range d.Cards {
		if c.CardID == cardID && c.Role != RoleSideboard {
			total += c.Quantity
		}
	}
	return total
}

// CardIDs returns the distinct card IDs across all partitions.
func (d *Deck) CardIDs() []string {
	seen := make(map[string]bool, len(d.Cards))
	ids := make([]string, 0, len(d.Cards))
	for _, c := range d.Cards {
		if !seen[c.CardID] {
			seen[c.CardID] = true
			ids = append(ids, c.CardID)
		}
	}
	return ids
}

// Contains reports whether the deck holds any copies of the card in any
// partition.
func (d *Deck) Contains(cardID string) bool {
	for _, c := range d.Cards {
		if c.CardID == cardID && c.Quantity > 0 {
			return true
		}
	}
	return false
}

// Store provides deck persistence. Implemented by the SQLite repository;
// the core pipeline only depends on this interface.
type Store interface {
	// GetDeck retrieves a deck with its cards.
	GetDeck(ctx context.Context, deckID string) (*Deck, error)

	// ApplyCardChange sets the quantity of a card in the given role.
	// A quantity of zero removes the entry.
	ApplyCardChange(ctx context.Context, deckID, cardID string, quantity int, role Role) error
}
