// Package repository implements the store interfaces consumed by the
// advisor pipeline on top of SQLite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/deckwise/deck-advisor/internal/cards"
)

// CardRepository persists catalog card facts and satisfies cards.Catalog.
type CardRepository interface {
	cards.Catalog

	// UpsertCards inserts or replaces a batch of catalog cards.
	UpsertCards(ctx context.Context, batch []*cards.Card) error

	// Count returns the number of cards in the catalog.
	Count(ctx context.Context) (int, error)
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a card repository.
func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, name, mana_cost, mana_value, colors, color_identity,
	type_line, types, subtypes, supertypes, keywords, oracle_text, rarity, legalities`

// GetCard retrieves a single card by ID.
func (r *cardRepository) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// GetCards retrieves multiple cards by ID. Missing IDs are absent from the
// result, not errors.
func (r *cardRepository) GetCards(ctx context.Context, ids []string) (map[string]*cards.Card, error) {
	result := make(map[string]*cards.Card, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		result[card.ID] = card
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return result, nil
}

// UpsertCards inserts or replaces a batch of catalog cards in one
// transaction.
func (r *cardRepository) UpsertCards(ctx context.Context, batch []*cards.Card) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO cards (` + cardColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mana_cost = excluded.mana_cost,
			mana_value = excluded.mana_value,
			colors = excluded.colors,
			color_identity = excluded.color_identity,
			type_line = excluded.type_line,
			types = excluded.types,
			subtypes = excluded.subtypes,
			supertypes = excluded.supertypes,
			keywords = excluded.keywords,
			oracle_text = excluded.oracle_text,
			rarity = excluded.rarity,
			legalities = excluded.legalities,
			updated_at = excluded.updated_at
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, card := range batch {
		_, err := stmt.ExecContext(ctx,
			card.ID,
			card.Name,
			card.ManaCost,
			card.ManaValue,
			encodeJSON(card.Colors),
			encodeJSON(card.ColorIdentity),
			card.TypeLine,
			encodeJSON(card.Types),
			encodeJSON(card.Subtypes),
			encodeJSON(card.Supertypes),
			encodeJSON(card.Keywords),
			card.OracleText,
			card.Rarity,
			encodeJSON(card.Legalities),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert card %s: %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// Count returns the number of catalog cards.
func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*cards.Card, error) {
	var (
		card       cards.Card
		manaCost   sql.NullString
		colors     sql.NullString
		identity   sql.NullString
		types      sql.NullString
		subtypes   sql.NullString
		supertypes sql.NullString
		keywords   sql.NullString
		oracleText sql.NullString
		legalities sql.NullString
	)
	err := row.Scan(
		&card.ID,
		&card.Name,
		&manaCost,
		&card.ManaValue,
		&colors,
		&identity,
		&card.TypeLine,
		&types,
		&subtypes,
		&supertypes,
		&keywords,
		&oracleText,
		&card.Rarity,
		&legalities,
	)
	if err != nil {
		return nil, err
	}

	card.ManaCost = manaCost.String
	card.OracleText = oracleText.String
	decodeJSON(colors.String, &card.Colors)
	decodeJSON(identity.String, &card.ColorIdentity)
	decodeJSON(types.String, &card.Types)
	decodeJSON(subtypes.String, &card.Subtypes)
	decodeJSON(supertypes.String, &card.Supertypes)
	decodeJSON(keywords.String, &card.Keywords)
	decodeJSON(legalities.String, &card.Legalities)
	return &card, nil
}

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeJSON[T any](raw string, dest *T) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), dest)
}
