package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deckwise/deck-advisor/internal/analyzer"
	"github.com/deckwise/deck-advisor/internal/format"
)

// TemplateRepository persists archetype templates and satisfies
// analyzer.TemplateStore. Templates are reference data seeded at startup.
type TemplateRepository interface {
	analyzer.TemplateStore

	// UpsertTemplate inserts or replaces a template and its card lists.
	UpsertTemplate(ctx context.Context, t analyzer.Template) error
}

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a template repository.
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// ListTemplates lists the templates for a format with their card lists.
func (r *templateRepository) ListTemplates(ctx context.Context, f format.Format) ([]analyzer.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, format, archetype FROM deck_templates WHERE format = ? ORDER BY name`,
		string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []analyzer.Template
	for rows.Next() {
		var t analyzer.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Format, &t.Archetype); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	for i := range templates {
		if err := r.loadCards(ctx, &templates[i]); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *templateRepository) loadCards(ctx context.Context, t *analyzer.Template) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_id, core FROM template_cards WHERE template_id = ? ORDER BY card_id`, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load template cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cardID string
		var core bool
		if err := rows.Scan(&cardID, &core); err != nil {
			return fmt.Errorf("failed to scan template card: %w", err)
		}
		if core {
			t.CoreCardIDs = append(t.CoreCardIDs, cardID)
		} else {
			t.SupportCardIDs = append(t.SupportCardIDs, cardID)
		}
	}
	return rows.Err()
}

// UpsertTemplate inserts or replaces a template and its card lists.
func (r *templateRepository) UpsertTemplate(ctx context.Context, t analyzer.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deck_templates (id, name, format, archetype)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			archetype = excluded.archetype
	`, t.ID, t.Name, t.Format, t.Archetype)
	if err != nil {
		return fmt.Errorf("failed to upsert template: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_cards WHERE template_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear template cards: %w", err)
	}

	for _, cardID := range t.CoreCardIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_cards (template_id, card_id, core) VALUES (?, ?, 1)`,
			t.ID, cardID); err != nil {
			return fmt.Errorf("failed to insert core card: %w", err)
		}
	}
	for _, cardID := range t.SupportCardIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_cards (template_id, card_id, core) VALUES (?, ?, 0)`,
			t.ID, cardID); err != nil {
			return fmt.Errorf("failed to insert support card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template: %w", err)
	}
	return nil
}
