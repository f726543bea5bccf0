package format

import "github.com/deckwise/deck-advisor/internal/cards"

// Brawl is the 60-card singleton commander variant restricted to
// Standard-legal cards. It reuses the commander profiles at constructed
// scale with lighter ramp targets.
var brawlConfig = Config{
	Format: FormatBrawl,
	Size: DeckSizeConfig{
		MinMainboard:      60,
		MaxMainboard:      60,
		SideboardCap:      0,
		Singleton:         true,
		RequiresCommander: true,
	},
	CopyLimit: CopyLimitConfig{MaxCopies: 1},
	Targets: CategoryTargets{
		cards.CategoryLand:     24,
		cards.CategoryRamp:     4,
		cards.CategoryRemoval:  7,
		cards.CategoryCardDraw: 6,
		cards.CategoryThreat:   18,
	},
	Weights: baseScoreWeights,
	Stages:  StageThresholds{EarlyBelow: 1.0 / 3.0, MidBelow: 5.0 / 6.0},
	Colors:  ColorConstraintIdentity,
	Modifiers: map[string]ArchetypeModifier{
		ArchetypeAggro: {
			ContextBonus: 6,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat: 4,
				cards.CategoryLand:   -2,
			},
		},
		ArchetypeTribal: {
			ContextBonus: 8,
			CategoryBias: map[cards.CardCategory]int{
				cards.CategoryThreat: 6,
			},
		},
	},
	Profiles:        commanderProfiles,
	DistanceWeights: constructedDistanceWeights,
}
