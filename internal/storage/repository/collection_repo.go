package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deckwise/deck-advisor/internal/collection"
)

// CollectionRepository persists collection holdings and satisfies
// collection.Store.
type CollectionRepository interface {
	collection.Store

	// CreateCollection inserts a new collection.
	CreateCollection(ctx context.Context, id, name string) error

	// AdjustQuantity applies a delta to a card's owned quantity, clamping
	// at zero, and records the change in the history table. The new
	// quantity is returned.
	AdjustQuantity(ctx context.Context, collectionID, cardID string, delta int) (int, error)
}

type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a collection repository.
func NewCollectionRepository(db *sql.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

// CreateCollection inserts a new collection.
func (r *collectionRepository) CreateCollection(ctx context.Context, id, name string) error {
	query := `INSERT INTO collections (id, name, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, id, name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// ListOwnedCards returns every owned card with its quantity.
func (r *collectionRepository) ListOwnedCards(ctx context.Context, collectionID string) ([]collection.OwnedCard, error) {
	query := `SELECT card_id, quantity FROM collection_cards WHERE collection_id = ? AND quantity > 0`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var owned []collection.OwnedCard
	for rows.Next() {
		var o collection.OwnedCard
		if err := rows.Scan(&o.CardID, &o.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan owned card: %w", err)
		}
		owned = append(owned, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owned cards: %w", err)
	}
	return owned, nil
}

// AdjustQuantity applies a delta to a card's owned quantity and records the
// change.
func (r *collectionRepository) AdjustQuantity(ctx context.Context, collectionID, cardID string, delta int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM collection_cards WHERE collection_id = ? AND card_id = ?`,
		collectionID, cardID,
	).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to get current quantity: %w", err)
	}

	next := current + delta
	if next < 0 {
		next = 0
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO collection_cards (collection_id, card_id, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection_id, card_id) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at
	`, collectionID, cardID, next, now)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert quantity: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collection_history (collection_id, card_id, delta, quantity_after, changed_at)
		VALUES (?, ?, ?, ?, ?)
	`, collectionID, cardID, delta, next, now)
	if err != nil {
		return 0, fmt.Errorf("failed to record change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit change: %w", err)
	}
	return next, nil
}
