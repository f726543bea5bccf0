package format

import (
	"errors"
	"testing"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
)

func TestForFormat(t *testing.T) {
	for _, f := range Supported() {
		a, err := ForFormat(f)
		if err != nil {
			t.Errorf("ForFormat(%s) returned error: %v", f, err)
			continue
		}
		if a.Format() != f {
			t.Errorf("ForFormat(%s).Format() = %s", f, a.Format())
		}
	}
}

func TestForFormatUnsupported(t *testing.T) {
	_, err := ForFormat(Format("vintage"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %T", err)
	}
	if unsupported.Format != "vintage" {
		t.Errorf("error carries format %q, want vintage", unsupported.Format)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{"standard", FormatStandard, false},
		{"modern", FormatModern, false},
		{"commander", FormatCommander, false},
		{"brawl", FormatBrawl, false},
		{"pauper", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.raw)
		if tt.wantErr != (err != nil) {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestStageOf(t *testing.T) {
	a := mustAdapter(t, FormatStandard)

	tests := []struct {
		name      string
		mainboard int
		want      Stage
	}{
		{"empty deck", 0, StageEarly},
		{"just under a third", 19, StageEarly},
		{"a third", 20, StageMid},
		{"just under five sixths", 49, StageMid},
		{"five sixths", 50, StageLate},
		{"complete", 60, StageLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &deck.Deck{}
			if tt.mainboard > 0 {
				d.Cards = []deck.Card{{CardID: "forest", Role: deck.RoleMainboard, Quantity: tt.mainboard}}
			}
			if got := a.StageOf(d); got != tt.want {
				t.Errorf("StageOf(%d cards) = %v, want %v", tt.mainboard, got, tt.want)
			}
		})
	}
}

func TestScoreWeightsFor(t *testing.T) {
	a := mustAdapter(t, FormatStandard)

	t.Run("late stage keeps base weights", func(t *testing.T) {
		w := a.ScoreWeightsFor(StageLate, "")
		if w != baseScoreWeights {
			t.Errorf("weights = %+v, want base %+v", w, baseScoreWeights)
		}
	})

	t.Run("early stage shifts mechanical into strategic", func(t *testing.T) {
		w := a.ScoreWeightsFor(StageEarly, "")
		if w.Mechanical >= baseScoreWeights.Mechanical {
			t.Errorf("mechanical weight %v should drop at early stage", w.Mechanical)
		}
		if w.Strategic <= baseScoreWeights.Strategic {
			t.Errorf("strategic weight %v should rise at early stage", w.Strategic)
		}
		if w.Total() != baseScoreWeights.Total() {
			t.Errorf("total ceiling changed: %v vs %v", w.Total(), baseScoreWeights.Total())
		}
	})

	t.Run("archetype bonus never lifts the context ceiling", func(t *testing.T) {
		w := a.ScoreWeightsFor(StageLate, ArchetypeTribal)
		if w.FormatContext > baseScoreWeights.FormatContext {
			t.Errorf("format context %v exceeds ceiling %v", w.FormatContext, baseScoreWeights.FormatContext)
		}
	})

	t.Run("total stays within 100 for every stage and archetype", func(t *testing.T) {
		for _, f := range Supported() {
			a := mustAdapter(t, f)
			for _, stage := range []Stage{StageEarly, StageMid, StageLate} {
				for _, p := range a.Profiles() {
					if total := a.ScoreWeightsFor(stage, p.Name).Total(); total > 100 {
						t.Errorf("%s/%s/%s total weight %v exceeds 100", f, stage, p.Name, total)
					}
				}
			}
		}
	})
}

func TestCategoryTargetsFor(t *testing.T) {
	a := mustAdapter(t, FormatStandard)

	base := a.CategoryTargetsFor("")
	aggro := a.CategoryTargetsFor(ArchetypeAggro)

	if aggro[cards.CategoryThreat] <= base[cards.CategoryThreat] {
		t.Errorf("aggro threat target %d should exceed base %d",
			aggro[cards.CategoryThreat], base[cards.CategoryThreat])
	}
	if aggro[cards.CategoryLand] >= base[cards.CategoryLand] {
		t.Errorf("aggro land target %d should undercut base %d",
			aggro[cards.CategoryLand], base[cards.CategoryLand])
	}

	for _, f := range Supported() {
		a := mustAdapter(t, f)
		for _, p := range a.Profiles() {
			for category, target := range a.CategoryTargetsFor(p.Name) {
				if target < 0 {
					t.Errorf("%s/%s target for %s is negative: %d", f, p.Name, category, target)
				}
			}
		}
	}
}

func TestCategoryTargetsForReturnsCopy(t *testing.T) {
	a := mustAdapter(t, FormatStandard)

	targets := a.CategoryTargetsFor("")
	targets[cards.CategoryLand] = 999

	if again := a.CategoryTargetsFor(""); again[cards.CategoryLand] == 999 {
		t.Error("CategoryTargetsFor exposed shared mutable state")
	}
}

func TestCommanderConfigShape(t *testing.T) {
	a := mustAdapter(t, FormatCommander)

	d := &deck.Deck{Cards: []deck.Card{{CardID: "forest", Role: deck.RoleMainboard, Quantity: 100}}}
	if got := a.StageOf(d); got != StageLate {
		t.Errorf("full commander deck stage = %v, want late", got)
	}
	if len(a.Profiles()) == 0 {
		t.Error("commander adapter has no archetype profiles")
	}
	if len(a.DistanceWeights()) == 0 {
		t.Error("commander adapter has no distance weights")
	}
}
