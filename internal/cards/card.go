// Package cards defines the immutable card catalog model consumed by the
// rest of the advisor pipeline.
package cards

import (
	"context"
	"strings"
)

// LegalityStatus describes a card's legality in a specific format.
type LegalityStatus string

const (
	LegalityLegal      LegalityStatus = "legal"
	LegalityNotLegal   LegalityStatus = "not_legal"
	LegalityBanned     LegalityStatus = "banned"
	LegalityRestricted LegalityStatus = "restricted"
)

// Card represents one printing of a card. Instances are read-only snapshots
// sourced from the external catalog; nothing in this module mutates them.
type Card struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	ManaCost      string                    `json:"manaCost,omitempty"`
	ManaValue     float64                   `json:"manaValue"`
	Colors        []string                  `json:"colors,omitempty"`
	ColorIdentity []string                  `json:"colorIdentity,omitempty"`
	TypeLine      string                    `json:"typeLine"`
	Types         []string                  `json:"types,omitempty"`
	Subtypes      []string                  `json:"subtypes,omitempty"`
	Supertypes    []string                  `json:"supertypes,omitempty"`
	Keywords      []string                  `json:"keywords,omitempty"`
	OracleText    string                    `json:"oracleText,omitempty"`
	Rarity        string                    `json:"rarity"`
	Legalities    map[string]LegalityStatus `json:"legalities,omitempty"`
}

// LegalityIn returns the card's legality in the given format key.
// Cards with no entry for a format are not legal there.
func (c *Card) LegalityIn(format string) LegalityStatus {
	if status, ok := c.Legalities[format]; ok {
		return status
	}
	return LegalityNotLegal
}

// HasType reports whether the card's type line contains the given type.
func (c *Card) HasType(cardType string) bool {
	for _, t := range c.Types {
		if strings.EqualFold(t, cardType) {
			return true
		}
	}
	return false
}

// HasSupertype reports whether the card carries the given supertype.
func (c *Card) HasSupertype(supertype string) bool {
	for _, t := range c.Supertypes {
		if strings.EqualFold(t, supertype) {
			return true
		}
	}
	return false
}

// IsBasicLand reports whether the card is a basic land. Basic lands are
// exempt from copy limits in every format.
func (c *Card) IsBasicLand() bool {
	return c.HasSupertype("Basic") && c.HasType("Land")
}

// HasKeyword reports whether the card carries the given keyword ability.
func (c *Card) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// IdentityWithin reports whether the card's color identity is contained in
// the given identity set. An empty card identity fits any deck.
func (c *Card) IdentityWithin(identity []string) bool {
	if len(c.ColorIdentity) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(identity))
	for _, color := range identity {
		allowed[strings.ToUpper(color)] = true
	}
	for _, color := range c.ColorIdentity {
		if !allowed[strings.ToUpper(color)] {
			return false
		}
	}
	return true
}

// Catalog provides read access to card facts. Implementations live outside
// the core pipeline (the SQLite-backed repository in this repo).
type Catalog interface {
	// GetCard retrieves a single card by ID.
	GetCard(ctx context.Context, id string) (*Card, error)

	// GetCards retrieves multiple cards by ID. Missing IDs are simply
	// absent from the result map, not an error.
	GetCards(ctx context.Context, ids []string) (map[string]*Card, error)
}
