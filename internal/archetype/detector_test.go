package archetype

import (
	"testing"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

func legalStandard() map[string]cards.LegalityStatus {
	return map[string]cards.LegalityStatus{"standard": cards.LegalityLegal}
}

func aggroPool() map[string]*cards.Card {
	return map[string]*cards.Card{
		"mountain": {
			ID: "mountain", Name: "Mountain",
			Types: []string{"Land"}, Supertypes: []string{"Basic"},
			Legalities: legalStandard(),
		},
		"raider": {
			ID: "raider", Name: "Rampaging Raider", ManaValue: 1,
			Types:      []string{"Creature"},
			Legalities: legalStandard(),
		},
		"bolt": {
			ID: "bolt", Name: "Bolt", ManaValue: 1,
			Types: []string{"Instant"}, OracleText: "Bolt deals 3 damage to any target.",
			Legalities: legalStandard(),
		},
	}
}

func controlPool() map[string]*cards.Card {
	return map[string]*cards.Card{
		"island": {
			ID: "island", Name: "Island",
			Types: []string{"Land"}, Supertypes: []string{"Basic"},
			Legalities: legalStandard(),
		},
		"cancel": {
			ID: "cancel", Name: "Cancel", ManaValue: 3,
			Types: []string{"Instant"}, OracleText: "Counter target spell.",
			Legalities: legalStandard(),
		},
		"sweep": {
			ID: "sweep", Name: "Day of Judgment", ManaValue: 4,
			Types: []string{"Sorcery"}, OracleText: "Destroy all creatures.",
			Legalities: legalStandard(),
		},
		"opt": {
			ID: "opt", Name: "Opt", ManaValue: 1,
			Types: []string{"Instant"}, OracleText: "Scry 1. Draw a card.",
			Legalities: legalStandard(),
		},
	}
}

func standardAdapter(t *testing.T) format.Adapter {
	t.Helper()
	a, err := format.ForFormat(format.FormatStandard)
	if err != nil {
		t.Fatalf("ForFormat: %v", err)
	}
	return a
}

func TestDetectAggro(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)

	d := &deck.Deck{Format: "standard", Cards: []deck.Card{
		{CardID: "raider", Role: deck.RoleMainboard, Quantity: 24},
		{CardID: "bolt", Role: deck.RoleMainboard, Quantity: 12},
		{CardID: "mountain", Role: deck.RoleMainboard, Quantity: 24},
	}}

	result := det.Detect(d, aggroPool(), adapter)
	if result.Archetype != format.ArchetypeAggro {
		t.Errorf("Detect = %s (confidence %.2f), want aggro", result.Archetype, result.Confidence)
	}
	if result.Declared {
		t.Error("inferred result must not claim a declared strategy")
	}
}

func TestDetectControl(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)

	d := &deck.Deck{Format: "standard", Cards: []deck.Card{
		{CardID: "cancel", Role: deck.RoleMainboard, Quantity: 10},
		{CardID: "sweep", Role: deck.RoleMainboard, Quantity: 6},
		{CardID: "opt", Role: deck.RoleMainboard, Quantity: 12},
		{CardID: "island", Role: deck.RoleMainboard, Quantity: 26},
	}}

	result := det.Detect(d, controlPool(), adapter)
	if result.Archetype != format.ArchetypeControl {
		t.Errorf("Detect = %s (confidence %.2f), want control", result.Archetype, result.Confidence)
	}
}

func TestConfidenceBounds(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)

	decks := []*deck.Deck{
		{},
		{Cards: []deck.Card{{CardID: "mountain", Role: deck.RoleMainboard, Quantity: 60}}},
		{Cards: []deck.Card{
			{CardID: "raider", Role: deck.RoleMainboard, Quantity: 30},
			{CardID: "mountain", Role: deck.RoleMainboard, Quantity: 30},
		}},
	}

	for i, d := range decks {
		result := det.Detect(d, aggroPool(), adapter)
		if result.Confidence < 0.2 || result.Confidence > 1.0 {
			t.Errorf("deck %d: confidence %v outside [0.2, 1.0]", i, result.Confidence)
		}
	}
}

func TestEffectiveArchetypeDeclaredWins(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)

	// Composition screams aggro, but the player says control.
	d := &deck.Deck{Format: "standard", Strategy: format.ArchetypeControl, Cards: []deck.Card{
		{CardID: "raider", Role: deck.RoleMainboard, Quantity: 24},
		{CardID: "bolt", Role: deck.RoleMainboard, Quantity: 12},
		{CardID: "mountain", Role: deck.RoleMainboard, Quantity: 24},
	}}

	result := det.EffectiveArchetype(d, aggroPool(), adapter)
	if result.Archetype != format.ArchetypeControl {
		t.Errorf("EffectiveArchetype = %s, want declared control", result.Archetype)
	}
	if !result.Declared {
		t.Error("Declared flag should be set")
	}
	if result.Confidence != 1.0 {
		t.Errorf("declared confidence = %v, want 1.0", result.Confidence)
	}
}

func TestDetectDeterministic(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)
	pool := aggroPool()

	d := &deck.Deck{Cards: []deck.Card{
		{CardID: "raider", Role: deck.RoleMainboard, Quantity: 20},
		{CardID: "bolt", Role: deck.RoleMainboard, Quantity: 16},
		{CardID: "mountain", Role: deck.RoleMainboard, Quantity: 24},
	}}

	first := det.Detect(d, pool, adapter)
	for i := 0; i < 10; i++ {
		again := det.Detect(d, pool, adapter)
		if again.Archetype != first.Archetype || again.Confidence != first.Confidence {
			t.Fatalf("detection changed between runs: %+v vs %+v", again, first)
		}
	}
}

func TestSideboardIgnored(t *testing.T) {
	det := NewDetector()
	adapter := standardAdapter(t)
	pool := controlPool()

	base := &deck.Deck{Cards: []deck.Card{
		{CardID: "cancel", Role: deck.RoleMainboard, Quantity: 12},
		{CardID: "island", Role: deck.RoleMainboard, Quantity: 24},
	}}
	withSideboard := &deck.Deck{Cards: append(append([]deck.Card{}, base.Cards...),
		deck.Card{CardID: "sweep", Role: deck.RoleSideboard, Quantity: 15})}

	a := det.Detect(base, pool, adapter)
	b := det.Detect(withSideboard, pool, adapter)
	if a.Archetype != b.Archetype || a.Confidence != b.Confidence {
		t.Errorf("sideboard changed detection: %+v vs %+v", a, b)
	}
}
