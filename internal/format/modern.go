package format

import "github.com/deckwise/deck-advisor/internal/cards"

// Modern shares Standard's construction shell but plays faster and leans
// harder on efficient interaction, so the targets and modifiers differ.
var modernConfig = Config{
	Format: FormatModern,
	Size: DeckSizeConfig{
		MinMainboard: 60,
		MaxMainboard: 0,
		SideboardCap: 15,
	},
	CopyLimit: CopyLimitConfig{MaxCopies: 4},
	Targets: CategoryTargets{
		cards.CategoryLand:     22,
		cards.CategoryThreat:   16,
		cards.CategoryRemoval:  10,
		cards.CategoryCardDraw: 6,
		cards.CategoryRamp:     2,
	},
	Weights: baseScoreWeights,
	Stages:  StageThresholds{EarlyBelow: 1.0 / 3.0, MidBelow: 5.0 / 6.0},
	Colors:  ColorConstraintNone,
	Modifiers: map[string]ArchetypeModifier{
		ArchetypeAggro: {
			ContextBonus: 6,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat:     4,
				cards.CategoryAggression: 4,
				cards.CategoryLand:       -2,
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
		ArchetypeCombo: {
			ContextBonus: 8,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryCardDraw:   6,
				cards.CategoryProtection: 4,
				cards.CategoryThreat:     -6,
			},
		},
	},
	Profiles: append(sixtyCardProfiles, ArchetypeProfile{
		Name: ArchetypeCombo,
		Profile: map[cards.CardCategory]float64{
			cards.CategoryCardDraw:   0.30,
			cards.CategoryRamp:       0.15,
			cards.CategoryProtection: 0.10,
			cards.CategoryThreat:     0.10,
			cards.CategoryLand:       0.35,
		},
	}),
	DistanceWeights: constructedDistanceWeights,
}
