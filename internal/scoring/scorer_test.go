package scoring

import (
	"testing"

	"github.com/deckwise/deck-advisor/internal/archetype"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

func legalStandard() map[string]cards.LegalityStatus {
	return map[string]cards.LegalityStatus{"standard": cards.LegalityLegal}
}

func scoringPool() map[string]*cards.Card {
	return map[string]*cards.Card{
		"forest": {
			ID: "forest", Name: "Forest",
			Types: []string{"Land"}, Supertypes: []string{"Basic"},
			Legalities: legalStandard(),
		},
		"knight": {
			ID: "knight", Name: "Fervent Knight", ManaValue: 2,
			Colors: []string{"G"}, ColorIdentity: []string{"G"},
			Types: []string{"Creature"}, Subtypes: []string{"Elf", "Knight"},
			Keywords:   []string{"Trample"},
			Legalities: legalStandard(),
		},
		"giant": {
			ID: "giant", Name: "Border Giant", ManaValue: 5,
			Colors: []string{"G"}, ColorIdentity: []string{"G"},
			Types: []string{"Creature"}, Subtypes: []string{"Giant"},
			Legalities: legalStandard(),
		},
	}
}

func testDeck() *deck.Deck {
	return &deck.Deck{
		Format:        "standard",
		ColorIdentity: []string{"G"},
		Cards: []deck.Card{
			{CardID: "knight", Role: deck.RoleMainboard, Quantity: 12},
			{CardID: "giant", Role: deck.RoleMainboard, Quantity: 8},
			{CardID: "forest", Role: deck.RoleMainboard, Quantity: 20},
		},
	}
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	adapter, err := format.ForFormat(format.FormatStandard)
	if err != nil {
		t.Fatalf("ForFormat: %v", err)
	}
	return NewContext(testDeck(), scoringPool(), adapter, archetype.NewDetector())
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()
	ctx := newTestContext(t)

	candidates := []*cards.Card{
		{
			ID: "elf-lord", Name: "Elf Lord", ManaValue: 3,
			Colors: []string{"G"}, Types: []string{"Creature"},
			Subtypes: []string{"Elf"}, Keywords: []string{"Trample"},
			OracleText: "Other Elf creatures you control get +1/+1.",
			Legalities: legalStandard(),
		},
		{
			ID: "off-color", Name: "Off Color Bolt", ManaValue: 1,
			Colors: []string{"R"}, Types: []string{"Instant"},
			OracleText: "Deals 3 damage to any target.",
			Legalities: legalStandard(),
		},
		{
			ID: "colorless", Name: "Sol Talisman", ManaValue: 2,
			Types: []string{"Artifact"}, OracleText: "{T}: Add {C}{C}.",
			Legalities: legalStandard(),
		},
	}

	for _, candidate := range candidates {
		score := scorer.Score(candidate, ctx)
		if score.Total < 0 || score.Total > 100 {
			t.Errorf("%s: total %v outside [0,100]", candidate.Name, score.Total)
		}
		weights := ctx.Adapter.ScoreWeightsFor(ctx.Stage, ctx.Archetype.Archetype)
		if score.Mechanical < 0 || score.Mechanical > weights.Mechanical {
			t.Errorf("%s: mechanical %v outside [0,%v]", candidate.Name, score.Mechanical, weights.Mechanical)
		}
		if score.Strategic < 0 || score.Strategic > weights.Strategic {
			t.Errorf("%s: strategic %v outside [0,%v]", candidate.Name, score.Strategic, weights.Strategic)
		}
		if score.FormatContext < 0 || score.FormatContext > weights.FormatContext {
			t.Errorf("%s: format context %v outside [0,%v]", candidate.Name, score.FormatContext, weights.FormatContext)
		}
		if score.Theme < 0 || score.Theme > weights.Theme {
			t.Errorf("%s: theme %v outside [0,%v]", candidate.Name, score.Theme, weights.Theme)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer()
	ctx := newTestContext(t)

	candidate := &cards.Card{
		ID: "elf-lord", Name: "Elf Lord", ManaValue: 3,
		Colors: []string{"G"}, Types: []string{"Creature"},
		Subtypes: []string{"Elf"}, Keywords: []string{"Trample"},
		Legalities: legalStandard(),
	}

	first := scorer.Score(candidate, ctx)
	for i := 0; i < 10; i++ {
		if again := scorer.Score(candidate, ctx); again != first {
			t.Fatalf("score changed between runs: %+v vs %+v", again, first)
		}
	}
}

func TestThemeRewardsSharedSubtype(t *testing.T) {
	scorer := NewScorer()
	ctx := newTestContext(t)

	elf := &cards.Card{
		ID: "elf", Name: "Another Elf", ManaValue: 3,
		Colors: []string{"G"}, Types: []string{"Creature"}, Subtypes: []string{"Elf"},
		Legalities: legalStandard(),
	}
	dragon := &cards.Card{
		ID: "dragon", Name: "Stray Dragon", ManaValue: 3,
		Colors: []string{"G"}, Types: []string{"Creature"}, Subtypes: []string{"Dragon"},
		Legalities: legalStandard(),
	}

	if elfScore, dragonScore := scorer.Score(elf, ctx), scorer.Score(dragon, ctx); elfScore.Theme <= dragonScore.Theme {
		t.Errorf("elf theme %v should beat dragon theme %v in an elf deck",
			elfScore.Theme, dragonScore.Theme)
	}
}

func TestOffColorPenalty(t *testing.T) {
	scorer := NewScorer()
	ctx := newTestContext(t)

	onColor := &cards.Card{
		ID: "a", Name: "Green Spell", ManaValue: 3, Colors: []string{"G"},
		Types: []string{"Sorcery"}, OracleText: "Draw a card.",
		Legalities: legalStandard(),
	}
	offColor := &cards.Card{
		ID: "b", Name: "Red Spell", ManaValue: 3, Colors: []string{"R"},
		Types: []string{"Sorcery"}, OracleText: "Draw a card.",
		Legalities: legalStandard(),
	}

	onScore, offScore := scorer.Score(onColor, ctx), scorer.Score(offColor, ctx)
	if onScore.FormatContext <= offScore.FormatContext {
		t.Errorf("on-color context %v should beat off-color %v",
			onScore.FormatContext, offScore.FormatContext)
	}
}

func TestStrategicRewardsGapFill(t *testing.T) {
	scorer := NewScorer()
	ctx := newTestContext(t)

	// The test deck has zero removal and zero card draw; both are
	// underfilled standard targets.
	removal := &cards.Card{
		ID: "removal", Name: "Nature Reclaims", ManaValue: 2, Colors: []string{"G"},
		Types: []string{"Instant"}, OracleText: "Destroy target artifact.",
		Legalities: legalStandard(),
	}
	filler := &cards.Card{
		ID: "filler", Name: "Plain Giant", ManaValue: 5, Colors: []string{"G"},
		Types:      []string{"Creature"},
		Legalities: legalStandard(),
	}

	removalScore, fillerScore := scorer.Score(removal, ctx), scorer.Score(filler, ctx)
	if removalScore.Strategic <= fillerScore.Strategic {
		t.Errorf("removal strategic %v should beat threat strategic %v with removal at zero",
			removalScore.Strategic, fillerScore.Strategic)
	}
}

func TestAnalyzeGaps(t *testing.T) {
	adapter, err := format.ForFormat(format.FormatStandard)
	if err != nil {
		t.Fatalf("ForFormat: %v", err)
	}

	gaps := AnalyzeGaps(testDeck(), scoringPool(), adapter.CategoryTargetsFor(""))

	land, ok := gaps.ByCategory(cards.CategoryLand)
	if !ok {
		t.Fatal("no land analysis")
	}
	if land.Current != 20 || land.Target != 24 || land.Status != StatusUnder {
		t.Errorf("land analysis = %+v, want 20/24 under", land)
	}
	if land.Shortfall() != 4 {
		t.Errorf("land shortfall = %d, want 4", land.Shortfall())
	}

	threat, ok := gaps.ByCategory(cards.CategoryThreat)
	if !ok {
		t.Fatal("no threat analysis")
	}
	if threat.Current != 20 || threat.Status != StatusOver {
		t.Errorf("threat analysis = %+v, want 20 over (target 18)", threat)
	}

	if _, ok := gaps.ByCategory(cards.CategoryCounter); ok {
		t.Error("standard base targets should not include counterspells")
	}
}

func TestSortScored(t *testing.T) {
	list := []Scored{
		{Card: &cards.Card{Name: "Beta"}, Score: Score{Total: 50, Mechanical: 10}},
		{Card: &cards.Card{Name: "Alpha"}, Score: Score{Total: 50, Mechanical: 10}},
		{Card: &cards.Card{Name: "Gamma"}, Score: Score{Total: 80}},
		{Card: &cards.Card{Name: "Delta"}, Score: Score{Total: 50, Mechanical: 20}},
	}

	SortScored(list)

	wantOrder := []string{"Gamma", "Delta", "Alpha", "Beta"}
	for i, want := range wantOrder {
		if list[i].Card.Name != want {
			t.Errorf("position %d = %s, want %s", i, list[i].Card.Name, want)
		}
	}
}
