package format

import "github.com/deckwise/deck-advisor/internal/cards"

// Archetype names shared across constructed formats.
const (
	ArchetypeAggro    = "aggro"
	ArchetypeMidrange = "midrange"
	ArchetypeControl  = "control"
	ArchetypeTempo    = "tempo"
	ArchetypeTribal   = "tribal"
	ArchetypeCombo    = "combo"
)

// baseScoreWeights are the reference axis ceilings: mechanical 40,
// strategic 30, format context 20, theme 10, total capped at 100.
var baseScoreWeights = ScoreWeights{
	Mechanical:    40,
	Strategic:     30,
	FormatContext: 20,
	Theme:         10,
}

// constructedDistanceWeights weight the categories that separate constructed
// archetypes most sharply. Tuning values, not invariants.
var constructedDistanceWeights = map[cards.CardCategory]float64{
	cards.CategoryAggression: 2.0,
	cards.CategoryThreat:     1.5,
	cards.CategoryRemoval:    1.0,
	cards.CategoryCounter:    1.5,
	cards.CategoryCardDraw:   1.0,
	cards.CategoryBoardWipe:  1.5,
	cards.CategoryTribal:     2.0,
	cards.CategoryRamp:       1.0,
}

// sixtyCardProfiles are the archetype fingerprints used for 60-card
// constructed formats.
var sixtyCardProfiles = []ArchetypeProfile{
	{
		Name: ArchetypeAggro,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.55,
			cards.CategoryAggression: 0.35,
			cards.CategoryRemoval:    0.15,
			cards.CategoryCardDraw:   0.05,
			cards.CategoryLand:       0.35,
		},
	},
	{
		Name: ArchetypeMidrange,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.40,
			cards.CategoryAggression: 0.10,
			cards.CategoryRemoval:    0.25,
			cards.CategoryCardDraw:   0.10,
			cards.CategoryLand:       0.40,
		},
	},
	{
		Name: ArchetypeControl,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.10,
			cards.CategoryRemoval:    0.25,
			cards.CategoryCounter:    0.15,
			cards.CategoryBoardWipe:  0.10,
			cards.CategoryCardDraw:   0.20,
			cards.CategoryLand:       0.43,
		},
	},
	{
		Name: ArchetypeTempo,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.30,
			cards.CategoryAggression: 0.20,
			cards.CategoryCounter:    0.12,
			cards.CategoryRemoval:    0.12,
			cards.CategoryCardDraw:   0.10,
			cards.CategoryLand:       0.38,
		},
	},
	{
		Name: ArchetypeTribal,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.50,
			cards.CategoryTribal:     0.30,
			cards.CategoryRemoval:    0.12,
			cards.CategoryLand:       0.38,
		},
	},
}

var standardConfig = Config{
	Format: FormatStandard,
	Size: DeckSizeConfig{
		MinMainboard: 60,
		MaxMainboard: 0,
		SideboardCap: 15,
	},
	CopyLimit: CopyLimitConfig{MaxCopies: 4},
	Targets: CategoryTargets{
		cards.CategoryLand:     24,
		cards.CategoryThreat:   18,
		cards.CategoryRemoval:  8,
		cards.CategoryCardDraw: 6,
		cards.CategoryRamp:     2,
	},
	Weights: baseScoreWeights,
	Stages:  StageThresholds{EarlyBelow: 1.0 / 3.0, MidBelow: 5.0 / 6.0},
	Colors:  ColorConstraintNone,
	Modifiers: map[string]ArchetypeModifier{
		ArchetypeAggro: {
			ContextBonus: 5,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat:   4,
				cards.CategoryLand:     -2,
				cards.CategoryCardDraw: -2,
			},
		},
		ArchetypeControl: {
			ContextBonus: 5,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryRemoval:  4,
				cards.CategoryCounter:  6,
				cards.CategoryCardDraw: 4,
				cards.CategoryThreat:   -8,
			},
		},
		ArchetypeTribal: {
			ContextBonus: 8,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat: 6,
			},
		},
	},
	Profiles:        sixtyCardProfiles,
	DistanceWeights: constructedDistanceWeights,
}
