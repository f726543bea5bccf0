package advisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/deckwise/deck-advisor/internal/analyzer"
	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/collection"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/events"
	"github.com/deckwise/deck-advisor/internal/format"
)

type fakeCatalog struct {
	cards map[string]*cards.Card
}

func (f *fakeCatalog) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, errors.New("card not found: " + id)
}

func (f *fakeCatalog) GetCards(ctx context.Context, ids []string) (map[string]*cards.Card, error) {
	out := make(map[string]*cards.Card)
	for _, id := range ids {
		if c, ok := f.cards[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeDeckStore struct {
	mu    sync.Mutex
	decks map[string]*deck.Deck
	gets  atomic.Int64
}

func (f *fakeDeckStore) GetDeck(ctx context.Context, deckID string) (*deck.Deck, error) {
	f.gets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.decks[deckID]
	if !ok {
		return nil, errors.New("deck not found: " + deckID)
	}
	copied := *d
	copied.Cards = append([]deck.Card{}, d.Cards...)
	return &copied, nil
}

func (f *fakeDeckStore) ApplyCardChange(ctx context.Context, deckID, cardID string, quantity int, role deck.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.decks[deckID]
	if !ok {
		return errors.New("deck not found: " + deckID)
	}
	for i, c := range d.Cards {
		if c.CardID == cardID && c.Role == role {
			if quantity == 0 {
				d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
			} else {
				d.Cards[i].Quantity = quantity
			}
			return nil
		}
	}
	if quantity > 0 {
		d.Cards = append(d.Cards, deck.Card{CardID: cardID, Role: role, Quantity: quantity})
	}
	return nil
}

type fakeCollectionStore struct {
	owned map[string][]collection.OwnedCard
}

func (f *fakeCollectionStore) ListOwnedCards(ctx context.Context, collectionID string) ([]collection.OwnedCard, error) {
	return f.owned[collectionID], nil
}

type fakeTemplates struct{}

func (fakeTemplates) ListTemplates(ctx context.Context, f format.Format) ([]analyzer.Template, error) {
	return []analyzer.Template{
		{ID: "t1", Name: "Stompy", Format: string(f), Archetype: "aggro",
			CoreCardIDs: []string{"bear", "elf"}},
	}, nil
}

func legalStandard() map[string]cards.LegalityStatus {
	return map[string]cards.LegalityStatus{"standard": cards.LegalityLegal}
}

func testCards() map[string]*cards.Card {
	return map[string]*cards.Card{
		"forest": {
			ID: "forest", Name: "Forest",
			Types: []string{"Land"}, Supertypes: []string{"Basic"},
			Legalities: legalStandard(),
		},
		"bear": {
			ID: "bear", Name: "Grizzly Bears", ManaValue: 2,
			Colors: []string{"G"}, ColorIdentity: []string{"G"},
			Types:      []string{"Creature"},
			Legalities: legalStandard(),
		},
		"elf": {
			ID: "elf", Name: "Llanowar Elves", ManaValue: 1,
			Colors: []string{"G"}, ColorIdentity: []string{"G"},
			Types: []string{"Creature"}, Subtypes: []string{"Elf"},
			OracleText: "{T}: Add {G}.",
			Legalities: legalStandard(),
		},
		"draw": {
			ID: "draw", Name: "Harmonize", ManaValue: 4,
			Colors: []string{"G"}, ColorIdentity: []string{"G"},
			Types: []string{"Sorcery"}, OracleText: "Draw three cards.",
			Legalities: legalStandard(),
		},
		"banned": {
			ID: "banned", Name: "Once Upon a Time", ManaValue: 2,
			Colors: []string{"G"}, Types: []string{"Instant"},
			Legalities: map[string]cards.LegalityStatus{"standard": cards.LegalityBanned},
		},
	}
}

func newTestAdvisor(t *testing.T) (*Advisor, *fakeDeckStore) {
	t.Helper()

	catalog := &fakeCatalog{cards: testCards()}
	deckStore := &fakeDeckStore{decks: map[string]*deck.Deck{
		"deck-1": {
			ID: "deck-1", Name: "Green Deck", Format: "standard",
			CollectionID: "col-1", ColorIdentity: []string{"G"},
			Cards: []deck.Card{
				{CardID: "bear", Role: deck.RoleMainboard, Quantity: 4},
				{CardID: "forest", Role: deck.RoleMainboard, Quantity: 20},
			},
		},
	}}
	collectionStore := &fakeCollectionStore{owned: map[string][]collection.OwnedCard{
		"col-1": {
			{CardID: "elf", Quantity: 4},
			{CardID: "draw", Quantity: 2},
			{CardID: "banned", Quantity: 4},
			{CardID: "bear", Quantity: 4}, // already in deck
		},
	}}

	collections := collection.NewService(collectionStore, catalog)
	a := analyzer.NewAnalyzer(fakeTemplates{}, collections)
	adv := New(catalog, collections, deckStore, a, cache.New(nil), events.NewDispatcher())
	return adv, deckStore
}

func TestGetSuggestionsOwnedAndLegalOnly(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	page, err := adv.GetSuggestions(context.Background(), "deck-1", "col-1",
		format.FormatStandard, "", 20, 0)
	if err != nil {
		t.Fatalf("GetSuggestions: %v", err)
	}

	if page.Total != 2 {
		t.Fatalf("got %d suggestions, want 2 (elf and draw)", page.Total)
	}
	for _, s := range page.Suggestions {
		switch s.Card.ID {
		case "banned":
			t.Error("banned card surfaced as a suggestion")
		case "bear":
			t.Error("card already in deck surfaced as a suggestion")
		}
		if !s.InCollection {
			t.Errorf("%s not marked as owned", s.Card.ID)
		}
		if s.Score.Total < 0 || s.Score.Total > 100 {
			t.Errorf("%s score %v outside [0,100]", s.Card.ID, s.Score.Total)
		}
		if len(s.Categories) == 0 {
			t.Errorf("%s has no categories", s.Card.ID)
		}
	}
}

func TestGetSuggestionsCategoryFilter(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	page, err := adv.GetSuggestions(context.Background(), "deck-1", "col-1",
		format.FormatStandard, cards.CategoryCardDraw, 20, 0)
	if err != nil {
		t.Fatalf("GetSuggestions: %v", err)
	}
	if page.Total != 1 || page.Suggestions[0].Card.ID != "draw" {
		t.Errorf("filtered page = %+v, want only the draw spell", page)
	}
}

func TestGetSuggestionsPagination(t *testing.T) {
	adv, _ := newTestAdvisor(t)
	ctx := context.Background()

	first, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 1, 0)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first.Suggestions) != 1 || !first.HasMore || first.Total != 2 {
		t.Fatalf("page 1 = %+v, want 1 of 2 with more", first)
	}

	second, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 1, 1)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second.Suggestions) != 1 || second.HasMore {
		t.Fatalf("page 2 = %+v, want final entry", second)
	}
	if first.Suggestions[0].Card.ID == second.Suggestions[0].Card.ID {
		t.Error("pages overlap")
	}

	past, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 1, 10)
	if err != nil {
		t.Fatalf("page past end: %v", err)
	}
	if len(past.Suggestions) != 0 || past.HasMore {
		t.Errorf("page past end = %+v, want empty", past)
	}
}

func TestGetSuggestionsSharedCacheAcrossOffsets(t *testing.T) {
	adv, deckStore := newTestAdvisor(t)
	ctx := context.Background()

	if _, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 1, 0); err != nil {
		t.Fatal(err)
	}
	before := deckStore.gets.Load()

	// Different offset and limit hit the same cached ranked list.
	if _, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 1, 1); err != nil {
		t.Fatal(err)
	}
	if after := deckStore.gets.Load(); after != before {
		t.Errorf("second page recomputed the pipeline: %d deck loads, want %d", after, before)
	}
}

func TestGetSuggestionsUnsupportedFormat(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	_, err := adv.GetSuggestions(context.Background(), "deck-1", "col-1",
		format.Format("legacy"), "", 20, 0)
	var unsupported *format.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestValidateDeck(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	result, err := adv.ValidateDeck(context.Background(), "deck-1")
	if err != nil {
		t.Fatalf("ValidateDeck: %v", err)
	}
	if result.Valid {
		t.Error("24-card standard deck should fail validation")
	}
	found := false
	for _, e := range result.Errors {
		if e.Kind == format.ViolationDeckTooSmall {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want deck-too-small", result.Errors)
	}
}

func TestApplyCardChangeInvalidatesCache(t *testing.T) {
	adv, deckStore := newTestAdvisor(t)
	ctx := context.Background()

	if _, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 20, 0); err != nil {
		t.Fatal(err)
	}
	before := deckStore.gets.Load()

	// Adding the elf to the deck must drop it from future suggestions.
	if err := adv.ApplyCardChange(ctx, "deck-1", "elf", 4, deck.RoleMainboard); err != nil {
		t.Fatalf("ApplyCardChange: %v", err)
	}

	page, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if deckStore.gets.Load() == before {
		t.Error("suggestions served stale cache after a deck edit")
	}
	for _, s := range page.Suggestions {
		if s.Card.ID == "elf" {
			t.Error("newly added card still suggested")
		}
	}
}

func TestRecordCollectionChangeInvalidatesCache(t *testing.T) {
	adv, deckStore := newTestAdvisor(t)
	ctx := context.Background()

	if _, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 20, 0); err != nil {
		t.Fatal(err)
	}
	before := deckStore.gets.Load()

	adv.RecordCollectionChange(ctx, events.CollectionChangeEvent{
		CollectionID: "col-1", CardID: "elf", DeltaQuantity: 1,
	})

	if _, err := adv.GetSuggestions(ctx, "deck-1", "col-1", format.FormatStandard, "", 20, 0); err != nil {
		t.Fatal(err)
	}
	if deckStore.gets.Load() == before {
		t.Error("suggestions served stale cache after a collection change")
	}
}

func TestGetBuildableDecks(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	report, err := adv.GetBuildableDecks(context.Background(), "col-1", format.FormatStandard, 0)
	if err != nil {
		t.Fatalf("GetBuildableDecks: %v", err)
	}
	if len(report.BuildableDecks) != 1 {
		t.Fatalf("got %d buildable decks, want 1", len(report.BuildableDecks))
	}
	d := report.BuildableDecks[0]
	// The collection owns both core cards of the Stompy template.
	if d.Completeness != 100 || !d.Viable {
		t.Errorf("buildable = %+v, want 100%% viable", d)
	}
	if len(report.ViableArchetypes) != 1 || report.ViableArchetypes[0].Archetype != "aggro" {
		t.Errorf("viable archetypes = %+v, want aggro", report.ViableArchetypes)
	}
}

func TestGetBuildableDecksLimitDoesNotMutateCache(t *testing.T) {
	adv, _ := newTestAdvisor(t)
	ctx := context.Background()

	trimmed, err := adv.GetBuildableDecks(ctx, "col-1", format.FormatStandard, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(trimmed.BuildableDecks) != 1 {
		t.Fatalf("trimmed report has %d decks", len(trimmed.BuildableDecks))
	}

	full, err := adv.GetBuildableDecks(ctx, "col-1", format.FormatStandard, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(full.BuildableDecks) != 1 {
		t.Errorf("cached report was truncated by an earlier limited read")
	}
}

func TestGetFormatCoverage(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	coverage, err := adv.GetFormatCoverage(context.Background(), "col-1", format.FormatStandard)
	if err != nil {
		t.Fatalf("GetFormatCoverage: %v", err)
	}
	// elf, draw, bear are standard-legal; the banned card is not.
	if coverage.OwnedCards != 3 {
		t.Errorf("OwnedCards = %d, want 3", coverage.OwnedCards)
	}
	if coverage.TotalOwned != 4 {
		t.Errorf("TotalOwned = %d, want 4", coverage.TotalOwned)
	}
}

func TestGetAllFormatCoverage(t *testing.T) {
	adv, _ := newTestAdvisor(t)

	all, err := adv.GetAllFormatCoverage(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("GetAllFormatCoverage: %v", err)
	}
	if len(all) != len(format.Supported()) {
		t.Errorf("got coverage for %d formats, want %d", len(all), len(format.Supported()))
	}
}
