// Package collection narrows the card universe to what a user owns before
// any scoring happens. Recommendations must never suggest a card the user
// does not own, so this filter is a correctness requirement, not an
// optimization.
package collection

import (
	"context"
	"fmt"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

// OwnedCard is a raw ownership row: a card reference and the owned
// quantity.
type OwnedCard struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

// Store lists a collection's holdings. Implemented by the SQLite
// repository.
type Store interface {
	// ListOwnedCards returns every owned card with its quantity.
	ListOwnedCards(ctx context.Context, collectionID string) ([]OwnedCard, error)
}

// Card joins an owned card with its catalog facts. Read-only snapshot for
// one evaluation.
type Card struct {
	Card     *cards.Card `json:"card"`
	Quantity int         `json:"quantity"`
}

// Service is the collection-first data-access layer.
type Service struct {
	store   Store
	catalog cards.Catalog
}

// NewService creates a collection service.
func NewService(store Store, catalog cards.Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// OwnedLegalCandidates returns the owned cards that are legal in the
// adapter's format, excluding cards already in the given deck. A collection
// with zero owned legal cards yields an empty slice, not an error:
// "nothing to suggest" is a valid, common case.
func (s *Service) OwnedLegalCandidates(ctx context.Context, collectionID string, adapter format.Adapter, exclude *deck.Deck) ([]Card, error) {
	owned, err := s.store.ListOwnedCards(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list owned cards: %w", err)
	}
	if len(owned) == 0 {
		return []Card{}, nil
	}

	ids := make([]string, 0, len(owned))
	for _, o := range owned {
		ids = append(ids, o.CardID)
	}
	byID, err := s.catalog.GetCards(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve owned cards: %w", err)
	}

	candidates := make([]Card, 0, len(owned))
	for _, o := range owned {
		if o.Quantity <= 0 {
			continue
		}
		card := byID[o.CardID]
		if card == nil {
			continue
		}
		// Banned and restricted cards never surface as suggestions,
		// even when owned.
		if adapter.LegalityOf(card) != cards.LegalityLegal {
			continue
		}
		if exclude != nil && exclude.Contains(o.CardID) {
			continue
		}
		candidates = append(candidates, Card{Card: card, Quantity: o.Quantity})
	}
	return candidates, nil
}

// OwnedSnapshot returns the owned quantities as a map for set operations.
func (s *Service) OwnedSnapshot(ctx context.Context, collectionID string) (map[string]int, error) {
	owned, err := s.store.ListOwnedCards(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list owned cards: %w", err)
	}
	snapshot := make(map[string]int, len(owned))
	for _, o := range owned {
		if o.Quantity > 0 {
			snapshot[o.CardID] = o.Quantity
		}
	}
	return snapshot, nil
}
