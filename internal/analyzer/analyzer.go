// Package analyzer matches an owned collection against archetype templates
// to compute completeness, gaps, and format coverage.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/collection"
	"github.com/deckwise/deck-advisor/internal/format"
)

// ViableThreshold is the completeness percentage at which a template counts
// as a viable archetype. Tuning value, preserved as a constant.
const ViableThreshold = 60

// Template is a named archetype template: a core card list plus a support
// pool. Templates are static reference data, never derived from user data.
type Template struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Format         string   `json:"format"`
	Archetype      string   `json:"archetype"`
	CoreCardIDs    []string `json:"coreCardIds"`
	SupportCardIDs []string `json:"supportCardIds,omitempty"`
}

// TemplateStore lists the templates for a format. Implemented by the SQLite
// repository.
type TemplateStore interface {
	ListTemplates(ctx context.Context, f format.Format) ([]Template, error)
}

// BuildableDeck reports how close a collection is to one template.
// Ownership is by exact card identity; there is no fuzzy matching.
type BuildableDeck struct {
	Template        Template `json:"template"`
	Completeness    int      `json:"completeness"` // 0-100
	OwnedCoreCards  []string `json:"ownedCoreCards"`
	MissingKeyCards []string `json:"missingKeyCards"`
	Viable          bool     `json:"viable"`
}

// ViableArchetype names an archetype the collection can already field.
type ViableArchetype struct {
	Archetype    string `json:"archetype"`
	TemplateName string `json:"templateName"`
	Completeness int    `json:"completeness"`
}

// FormatCoverage summarizes how much of a format's card pool the collection
// holds.
type FormatCoverage struct {
	Format       string `json:"format"`
	OwnedCards   int    `json:"ownedCards"`   // distinct owned cards legal in the format
	OwnedCopies  int    `json:"ownedCopies"`  // total owned copies legal in the format
	TotalOwned   int    `json:"totalOwned"`   // distinct owned cards, any legality
	ViableDecks  int    `json:"viableDecks"`  // templates at or above the viable threshold
	TemplateBest int    `json:"templateBest"` // best completeness across templates
}

// Analyzer computes buildable decks and coverage for a collection.
type Analyzer struct {
	templates   TemplateStore
	collections *collection.Service
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(templates TemplateStore, collections *collection.Service) *Analyzer {
	return &Analyzer{templates: templates, collections: collections}
}

// BuildableDecks evaluates every template for the format against the
// collection. Results are sorted by completeness descending, ties broken by
// template name.
func (a *Analyzer) BuildableDecks(ctx context.Context, collectionID string, adapter format.Adapter) ([]BuildableDeck, error) {
	templates, err := a.templates.ListTemplates(ctx, adapter.Format())
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	owned, err := a.collections.OwnedSnapshot(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	results := make([]BuildableDeck, 0, len(templates))
	for _, template := range templates {
		results = append(results, evaluateTemplate(template, owned))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Completeness != results[j].Completeness {
			return results[i].Completeness > results[j].Completeness
		}
		return results[i].Template.Name < results[j].Template.Name
	})
	return results, nil
}

// ViableArchetypes filters BuildableDecks down to templates at or above the
// viable threshold.
func (a *Analyzer) ViableArchetypes(ctx context.Context, collectionID string, adapter format.Adapter) ([]ViableArchetype, error) {
	decks, err := a.BuildableDecks(ctx, collectionID, adapter)
	if err != nil {
		return nil, err
	}
	viable := make([]ViableArchetype, 0)
	for _, d := range decks {
		if d.Viable {
			viable = append(viable, ViableArchetype{
				Archetype:    d.Template.Archetype,
				TemplateName: d.Template.Name,
				Completeness: d.Completeness,
			})
		}
	}
	return viable, nil
}

// Coverage computes how many format-legal cards the collection contains.
func (a *Analyzer) Coverage(ctx context.Context, collectionID string, adapter format.Adapter, catalog cards.Catalog) (*FormatCoverage, error) {
	owned, err := a.collections.OwnedSnapshot(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	coverage := &FormatCoverage{
		Format:     string(adapter.Format()),
		TotalOwned: len(owned),
	}

	if len(owned) > 0 {
		ids := make([]string, 0, len(owned))
		for id := range owned {
			ids = append(ids, id)
		}
		byID, err := catalog.GetCards(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve owned cards: %w", err)
		}
		for id, qty := range owned {
			card := byID[id]
			if card == nil {
				continue
			}
			if adapter.LegalityOf(card) == cards.LegalityLegal {
				coverage.OwnedCards++
				coverage.OwnedCopies += qty
			}
		}
	}

	decks, err := a.BuildableDecks(ctx, collectionID, adapter)
	if err != nil {
		return nil, err
	}
	for _, d := range decks {
		if d.Viable {
			coverage.ViableDecks++
		}
		if d.Completeness > coverage.TemplateBest {
			coverage.TemplateBest = d.Completeness
		}
	}
	return coverage, nil
}

// evaluateTemplate is a set-difference over card identifiers: completeness
// is the owned share of the core list, rounded to a whole percent.
func evaluateTemplate(template Template, owned map[string]int) BuildableDeck {
	result := BuildableDeck{Template: template}
	if len(template.CoreCardIDs) == 0 {
		return result
	}

	for _, id := range template.CoreCardIDs {
		if owned[id] > 0 {
			result.OwnedCoreCards = append(result.OwnedCoreCards, id)
		} else {
			result.MissingKeyCards = append(result.MissingKeyCards, id)
		}
	}

	pct := float64(len(result.OwnedCoreCards)) / float64(len(template.CoreCardIDs)) * 100
	result.Completeness = int(math.Round(pct))
	result.Viable = result.Completeness >= ViableThreshold
	return result
}
