// Package advisor composes the recommendation pipeline: collection-first
// candidate narrowing, format-adapter rules, archetype detection, synergy
// scoring, buildable-deck analysis, and the cache that makes repeated
// evaluation cheap.
package advisor

import (
	"context"
	"fmt"

	"github.com/deckwise/deck-advisor/internal/analyzer"
	"github.com/deckwise/deck-advisor/internal/archetype"
	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/collection"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/events"
	"github.com/deckwise/deck-advisor/internal/format"
	"github.com/deckwise/deck-advisor/internal/scoring"
)

// Suggestion is the one record type shared by every producer and consumer
// of card suggestions.
type Suggestion struct {
	Card         *cards.Card          `json:"card"`
	Score        scoring.Score        `json:"score"`
	Categories   []cards.CardCategory `json:"categories"`
	InCollection bool                 `json:"inCollection"`
}

// SuggestionsPage is one page of ranked suggestions.
type SuggestionsPage struct {
	Suggestions []Suggestion `json:"suggestions"`
	Total       int          `json:"total"`
	HasMore     bool         `json:"hasMore"`
}

// BuildableReport aggregates the buildable-deck analysis for a collection.
type BuildableReport struct {
	ViableArchetypes []analyzer.ViableArchetype `json:"viableArchetypes"`
	BuildableDecks   []analyzer.BuildableDeck   `json:"buildableDecks"`
}

// Advisor is the façade over the whole pipeline. All collaborators are
// injected; the advisor holds no mutable state of its own beyond the cache.
type Advisor struct {
	catalog     cards.Catalog
	collections *collection.Service
	decks       deck.Store
	analyzer    *analyzer.Analyzer
	detector    *archetype.Detector
	scorer      *scoring.Scorer
	cache       *cache.Cache
	dispatcher  *events.Dispatcher
}

// New creates an advisor.
func New(catalog cards.Catalog, collections *collection.Service, decks deck.Store, a *analyzer.Analyzer, c *cache.Cache, dispatcher *events.Dispatcher) *Advisor {
	return &Advisor{
		catalog:     catalog,
		collections: collections,
		decks:       decks,
		analyzer:    a,
		detector:    archetype.NewDetector(),
		scorer:      scoring.NewScorer(),
		cache:       c,
		dispatcher:  dispatcher,
	}
}

// GetSuggestions ranks the owned, format-legal candidate cards for a deck.
// The full ranked list is cached per (deck, collection, format, filter);
// pagination happens after the cache so concurrent callers at any offset
// share one computation.
func (adv *Advisor) GetSuggestions(ctx context.Context, deckID, collectionID string, f format.Format, categoryFilter cards.CardCategory, limit, offset int) (*SuggestionsPage, error) {
	adapter, err := format.ForFormat(f)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	key := cache.Key(deckID, collectionID, string(f), "suggest", string(categoryFilter))
	value, _, err := adv.cache.GetOrCompute(ctx, key, cache.StrategySuggestions, func(ctx context.Context) (any, error) {
		return adv.computeSuggestions(ctx, deckID, collectionID, adapter, categoryFilter)
	})
	if err != nil {
		return nil, err
	}
	ranked := value.([]Suggestion)

	page := &SuggestionsPage{Total: len(ranked), Suggestions: []Suggestion{}}
	if offset < len(ranked) {
		end := offset + limit
		if end > len(ranked) {
			end = len(ranked)
		}
		page.Suggestions = ranked[offset:end]
		page.HasMore = end < len(ranked)
	}
	return page, nil
}

// computeSuggestions runs the uncached pipeline: narrow to owned legal
// candidates, build a scoring context, score every candidate with
// cooperative cancellation, and sort deterministically.
func (adv *Advisor) computeSuggestions(ctx context.Context, deckID, collectionID string, adapter format.Adapter, categoryFilter cards.CardCategory) ([]Suggestion, error) {
	d, err := adv.decks.GetDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}

	byID, err := adv.deckCards(ctx, d)
	if err != nil {
		return nil, err
	}

	candidates, err := adv.collections.OwnedLegalCandidates(ctx, collectionID, adapter, d)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Suggestion{}, nil
	}

	scoringCtx := scoring.NewContext(d, byID, adapter, adv.detector)

	scored := make([]scoring.Scored, 0, len(candidates))
	for _, candidate := range candidates {
		// Cooperative cancellation between candidate evaluations;
		// partial results are discarded, not returned.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		categories := cards.Categorize(candidate.Card)
		if categoryFilter != "" && !hasCategory(categories, categoryFilter) {
			continue
		}
		scored = append(scored, scoring.Scored{
			Card:       candidate.Card,
			Score:      adv.scorer.Score(candidate.Card, scoringCtx),
			Categories: categories,
		})
	}
	scoring.SortScored(scored)

	suggestions := make([]Suggestion, 0, len(scored))
	for _, s := range scored {
		suggestions = append(suggestions, Suggestion{
			Card:         s.Card,
			Score:        s.Score,
			Categories:   s.Categories,
			InCollection: true,
		})
	}
	return suggestions, nil
}

// GetFormatCoverage reports coverage for one format.
func (adv *Advisor) GetFormatCoverage(ctx context.Context, collectionID string, f format.Format) (*analyzer.FormatCoverage, error) {
	adapter, err := format.ForFormat(f)
	if err != nil {
		return nil, err
	}

	key := cache.Key(collectionID, string(f), "coverage")
	value, _, err := adv.cache.GetOrCompute(ctx, key, cache.StrategyCoverage, func(ctx context.Context) (any, error) {
		return adv.analyzer.Coverage(ctx, collectionID, adapter, adv.catalog)
	})
	if err != nil {
		return nil, err
	}
	return value.(*analyzer.FormatCoverage), nil
}

// GetAllFormatCoverage reports coverage for every supported format.
func (adv *Advisor) GetAllFormatCoverage(ctx context.Context, collectionID string) (map[format.Format]*analyzer.FormatCoverage, error) {
	result := make(map[format.Format]*analyzer.FormatCoverage, len(format.Supported()))
	for _, f := range format.Supported() {
		coverage, err := adv.GetFormatCoverage(ctx, collectionID, f)
		if err != nil {
			return nil, err
		}
		result[f] = coverage
	}
	return result, nil
}

// GetBuildableDecks reports which archetype templates the collection can
// build, capped at limit entries.
func (adv *Advisor) GetBuildableDecks(ctx context.Context, collectionID string, f format.Format, limit int) (*BuildableReport, error) {
	adapter, err := format.ForFormat(f)
	if err != nil {
		return nil, err
	}

	key := cache.Key(collectionID, string(f), "buildable")
	value, _, err := adv.cache.GetOrCompute(ctx, key, cache.StrategyBuildable, func(ctx context.Context) (any, error) {
		decks, err := adv.analyzer.BuildableDecks(ctx, collectionID, adapter)
		if err != nil {
			return nil, err
		}
		report := &BuildableReport{BuildableDecks: decks, ViableArchetypes: []analyzer.ViableArchetype{}}
		for _, d := range decks {
			if d.Viable {
				report.ViableArchetypes = append(report.ViableArchetypes, analyzer.ViableArchetype{
					Archetype:    d.Template.Archetype,
					TemplateName: d.Template.Name,
					Completeness: d.Completeness,
				})
			}
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}

	report := value.(*BuildableReport)
	if limit > 0 && len(report.BuildableDecks) > limit {
		trimmed := *report
		trimmed.BuildableDecks = report.BuildableDecks[:limit]
		return &trimmed, nil
	}
	return report, nil
}

// ValidateDeck runs the deck's format rules and returns violations as data.
func (adv *Advisor) ValidateDeck(ctx context.Context, deckID string) (*format.ValidationResult, error) {
	d, err := adv.decks.GetDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	f, err := format.Parse(d.Format)
	if err != nil {
		return nil, err
	}
	adapter, _ := format.ForFormat(f)

	key := cache.Key(deckID, string(f), "validate")
	value, _, err := adv.cache.GetOrCompute(ctx, key, cache.StrategyValidation, func(ctx context.Context) (any, error) {
		byID, err := adv.deckCards(ctx, d)
		if err != nil {
			return nil, err
		}
		errs := adapter.ValidateDeck(d, byID)
		if errs == nil {
			errs = []format.ValidationError{}
		}
		return &format.ValidationResult{Valid: len(errs) == 0, Errors: errs}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*format.ValidationResult), nil
}

// ApplyCardChange mutates a deck, invalidates its cached results, and
// notifies the change feed.
func (adv *Advisor) ApplyCardChange(ctx context.Context, deckID, cardID string, quantity int, role deck.Role) error {
	if err := adv.decks.ApplyCardChange(ctx, deckID, cardID, quantity, role); err != nil {
		return fmt.Errorf("apply card change: %w", err)
	}
	adv.cache.Invalidate(deckID)
	if adv.dispatcher != nil {
		adv.dispatcher.Dispatch(events.Event{
			Type:    events.TypeDeckChanged,
			Data:    events.DeckChangedEvent{DeckID: deckID, CardID: cardID},
			Context: ctx,
		})
	}
	return nil
}

// RecordCollectionChange invalidates a mutated collection's cached results
// and feeds the change event to observers (the progress tracker among
// them). The storage layer itself never touches the cache.
func (adv *Advisor) RecordCollectionChange(ctx context.Context, change events.CollectionChangeEvent) {
	adv.cache.Invalidate(change.CollectionID)
	if adv.dispatcher != nil {
		adv.dispatcher.Dispatch(events.Event{
			Type:    events.TypeCollectionChanged,
			Data:    change,
			Context: ctx,
		})
	}
}

// CacheStats exposes the cache counters for the system endpoint.
func (adv *Advisor) CacheStats() cache.Stats {
	return adv.cache.GetStats()
}

// deckCards resolves every card referenced by the deck, commander included.
func (adv *Advisor) deckCards(ctx context.Context, d *deck.Deck) (map[string]*cards.Card, error) {
	ids := d.CardIDs()
	if d.CommanderID != "" {
		ids = append(ids, d.CommanderID)
	}
	if len(ids) == 0 {
		return map[string]*cards.Card{}, nil
	}
	byID, err := adv.catalog.GetCards(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve deck cards: %w", err)
	}
	return byID, nil
}

func hasCategory(categories []cards.CardCategory, want cards.CardCategory) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}
