package format

import "github.com/deckwise/deck-advisor/internal/cards"

// commanderProfiles reflect 100-card singleton play: slower curves, heavier
// ramp and card advantage, tribal and combo as first-class strategies.
var commanderProfiles = []ArchetypeProfile{
	{
		Name: ArchetypeAggro,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:     0.45,
			cards.CategoryAggression: 0.20,
			cards.CategoryRamp:       0.08,
			cards.CategoryLand:       0.36,
		},
	},
	{
		Name: ArchetypeControl,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryRemoval:   0.15,
			cards.CategoryBoardWipe: 0.08,
			cards.CategoryCounter:   0.10,
			cards.CategoryCardDraw:  0.15,
			cards.CategoryThreat:    0.12,
			cards.CategoryLand:      0.37,
		},
	},
	{
		Name: ArchetypeTribal,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat: 0.45,
			cards.CategoryTribal: 0.25,
			cards.CategoryRamp:   0.10,
			cards.CategoryLand:   0.37,
		},
	},
	{
		Name: ArchetypeCombo,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryCardDraw:   0.22,
			cards.CategoryRamp:       0.15,
			cards.CategoryProtection: 0.08,
			cards.CategoryThreat:     0.15,
			cards.CategoryLand:       0.35,
		},
	},
	{
		Name: ArchetypeMidrange,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryThreat:   0.35,
			cards.CategoryRemoval:  0.12,
			cards.CategoryRamp:     0.12,
			cards.CategoryCardDraw: 0.10,
			cards.CategoryLand:     0.37,
		},
	},
}

var commanderConfig = Config{
	Format: FormatCommander,
	Size: DeckSizeConfig{
		MinMainboard:      100,
		MaxMainboard:      100,
		SideboardCap:      0,
		Singleton:         true,
		RequiresCommander: true,
	},
	CopyLimit: CopyLimitConfig{MaxCopies: 1},
	Targets: CategoryTargets{
		cards.CategoryLand:      37,
		cards.CategoryRamp:      10,
		cards.CategoryRemoval:   8,
		cards.CategoryBoardWipe: 3,
		cards.CategoryCardDraw:  10,
		cards.CategoryThreat:    25,
	},
	Weights: baseScoreWeights,
	Stages:  StageThresholds{EarlyBelow: 1.0 / 3.0, MidBelow: 5.0 / 6.0},
	Colors:  ColorConstraintIdentity,
	Modifiers: map[string]ArchetypeModifier{
		ArchetypeTribal: {
			ContextBonus: 10,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat: 8,
			},
		},
		ArchetypeCombo: {
			ContextBonus: 8,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryCardDraw:   5,
				cards.CategoryProtection: 4,
			},
		},
		ArchetypeControl: {
			ContextBonus: 5,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryBoardWipe: 3,
				cards.CategoryCounter:   5,
				cards.CategoryThreat:    -8,
			},
		},
	},
	Profiles: commanderProfiles,
	DistanceWeights: map[cards.CardCategory]float64{
		cards.CategoryThreat:    1.5,
		cards.CategoryTribal:    2.0,
		cards.CategoryRamp:      1.5,
		cards.CategoryCardDraw:  1.5,
		cards.CategoryRemoval:   1.0,
		cards.CategoryBoardWipe: 1.5,
		cards.CategoryCounter:   1.0,
	},
}
