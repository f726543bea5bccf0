package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/deckwise/deck-advisor/internal/deck"
)

// DeckRepository persists decks and satisfies deck.Store.
type DeckRepository interface {
	deck.Store

	// CreateDeck inserts a new deck header.
	CreateDeck(ctx context.Context, d *deck.Deck) error

	// ListDecks retrieves all deck headers, without cards.
	ListDecks(ctx context.Context) ([]*deck.Deck, error)

	// DeleteDeck removes a deck and its cards.
	DeleteDeck(ctx context.Context, deckID string) error
}

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

// CreateDeck inserts a new deck header.
func (r *deckRepository) CreateDeck(ctx context.Context, d *deck.Deck) error {
	query := `
		INSERT INTO decks (
			id, name, format, collection_id, commander_card_id,
			color_identity, strategy, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.Format,
		nullable(d.CollectionID),
		nullable(d.CommanderID),
		strings.Join(d.ColorIdentity, ","),
		nullable(d.Strategy),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

// GetDeck retrieves a deck with its cards.
func (r *deckRepository) GetDeck(ctx context.Context, deckID string) (*deck.Deck, error) {
	query := `
		SELECT id, name, format, collection_id, commander_card_id, color_identity, strategy
		FROM decks WHERE id = ?
	`
	var (
		d            deck.Deck
		collectionID sql.NullString
		commanderID  sql.NullString
		identity     sql.NullString
		strategy     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, deckID).Scan(
		&d.ID, &d.Name, &d.Format, &collectionID, &commanderID, &identity, &strategy,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("deck %s not found: %w", deckID, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	d.CollectionID = collectionID.String
	d.CommanderID = commanderID.String
	d.Strategy = strategy.String
	if identity.String != "" {
		d.ColorIdentity = strings.Split(identity.String, ",")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT card_id, quantity, role FROM deck_cards WHERE deck_id = ? AND quantity > 0`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c deck.Card
		var role string
		if err := rows.Scan(&c.CardID, &c.Quantity, &role); err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		c.Role = deck.Role(role)
		d.Cards = append(d.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck cards: %w", err)
	}
	return &d, nil
}

// ApplyCardChange sets the quantity of a card in the given role. Zero
// removes the entry.
func (r *deckRepository) ApplyCardChange(ctx context.Context, deckID, cardID string, quantity int, role deck.Role) error {
	if quantity <= 0 {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM deck_cards WHERE deck_id = ? AND card_id = ? AND role = ?`,
			deckID, cardID, string(role))
		if err != nil {
			return fmt.Errorf("failed to remove deck card: %w", err)
		}
	} else {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO deck_cards (deck_id, card_id, quantity, role)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(deck_id, card_id, role) DO UPDATE SET
				quantity = excluded.quantity
		`, deckID, cardID, quantity, string(role))
		if err != nil {
			return fmt.Errorf("failed to upsert deck card: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE decks SET modified_at = ? WHERE id = ?`, time.Now(), deckID)
	if err != nil {
		return fmt.Errorf("failed to touch deck: %w", err)
	}
	return nil
}

// ListDecks retrieves all deck headers.
func (r *deckRepository) ListDecks(ctx context.Context) ([]*deck.Deck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, format, collection_id, commander_card_id, color_identity, strategy
		 FROM decks ORDER BY modified_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*deck.Deck
	for rows.Next() {
		var (
			d            deck.Deck
			collectionID sql.NullString
			commanderID  sql.NullString
			identity     sql.NullString
			strategy     sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Format, &collectionID, &commanderID, &identity, &strategy); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		d.CollectionID = collectionID.String
		d.CommanderID = commanderID.String
		d.Strategy = strategy.String
		if identity.String != "" {
			d.ColorIdentity = strings.Split(identity.String, ",")
		}
		decks = append(decks, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}
	return decks, nil
}

// DeleteDeck removes a deck and its cards.
func (r *deckRepository) DeleteDeck(ctx context.Context, deckID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID); err != nil {
		return fmt.Errorf("failed to delete deck cards: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, deckID); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
