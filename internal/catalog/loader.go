// Package catalog loads the bulk card data file into the card store and
// keeps it current while the service runs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/events"
)

// CardWriter is the slice of the card repository the loader needs.
type CardWriter interface {
	UpsertCards(ctx context.Context, batch []*cards.Card) error
	Count(ctx context.Context) (int, error)
}

// Loader reads a bulk card JSON file and upserts it into the card store.
// A successful load invalidates cached coverage reports and notifies
// observers so downstream state can refresh.
type Loader struct {
	writer     CardWriter
	cache      *cache.Cache
	dispatcher *events.Dispatcher
}

// NewLoader creates a catalog loader.
func NewLoader(writer CardWriter, c *cache.Cache, dispatcher *events.Dispatcher) *Loader {
	return &Loader{
		writer:     writer,
		cache:      c,
		dispatcher: dispatcher,
	}
}

// Load reads the bulk file at path and upserts every card it contains.
// The file is a JSON array of card objects.
func (l *Loader) Load(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var batch []*cards.Card
	if err := json.Unmarshal(data, &batch); err != nil {
		return 0, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(batch) == 0 {
		return 0, fmt.Errorf("catalog file %s contains no cards", path)
	}

	if err := l.writer.UpsertCards(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	// Coverage and buildable reports depend on the legal card pool, so a
	// catalog change makes them stale.
	if l.cache != nil {
		l.cache.InvalidateStrategy(cache.StrategyCoverage)
		l.cache.InvalidateStrategy(cache.StrategyBuildable)
		l.cache.InvalidateStrategy(cache.StrategySuggestions)
		l.cache.InvalidateStrategy(cache.StrategyValidation)
	}

	if l.dispatcher != nil {
		l.dispatcher.Dispatch(events.Event{
			Type:    events.TypeCatalogUpdated,
			Data:    events.CatalogUpdatedEvent{Cards: len(batch)},
			Context: ctx,
		})
	}

	log.Printf("[Catalog] Loaded %d cards from %s", len(batch), path)
	return len(batch), nil
}
