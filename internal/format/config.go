package format

import "github.com/deckwise/deck-advisor/internal/cards"

// DeckSizeConfig bounds the deck partitions for a format.
type DeckSizeConfig struct {
	MinMainboard int
	MaxMainboard int // 0 = unbounded
	SideboardCap int
	Singleton    bool
	// RequiresCommander is set for formats where the commander partition
	// must hold exactly one card.
	RequiresCommander bool
}

// CopyLimitConfig bounds per-card copies for a format.
type CopyLimitConfig struct {
	// MaxCopies applies to every non-basic-land card. Singleton formats
	// set this to 1.
	MaxCopies int
}

// CategoryTargets holds the ideal count per functional category for a
// well-built deck in this format.
type CategoryTargets map[cards.CardCategory]int

// ScoreWeights caps each synergy sub-score. Weights are non-negative and
// their sum never exceeds 100, so the combined score stays in [0,100].
type ScoreWeights struct {
	Mechanical    float64
	Strategic     float64
	FormatContext float64
	Theme         float64
}

// Total returns the combined ceiling across all axes.
func (w ScoreWeights) Total() float64 {
	return w.Mechanical + w.Strategic + w.FormatContext + w.Theme
}

// Stage marks how far along a deck build is. Thresholds are fractions of the
// format's minimum mainboard size.
type Stage string

const (
	StageEarly Stage = "early"
	StageMid   Stage = "mid"
	StageLate  Stage = "late"
)

// StageThresholds holds the completion fractions separating build stages.
type StageThresholds struct {
	EarlyBelow float64 // below this fraction the deck is early-stage
	MidBelow   float64 // below this fraction the deck is mid-stage
}

// ColorConstraint describes how a card's colors must relate to the deck's
// declared identity for the card to be playable.
type ColorConstraint string

const (
	// ColorConstraintNone leaves colors unconstrained; color preference
	// only influences scoring.
	ColorConstraintNone ColorConstraint = "none"

	// ColorConstraintIdentity requires every card's color identity to be
	// contained in the commander's (or deck's declared) identity.
	ColorConstraintIdentity ColorConstraint = "identity"
)

// ArchetypeModifier adjusts score weights when the deck matches an
// archetype. Bonuses are points added to the format-context axis, scaled by
// detection confidence; the axis ceiling still applies.
type ArchetypeModifier struct {
	ContextBonus float64
	// CategoryBias nudges targets for specific categories, letting an
	// archetype want more removal or more threats than the format base.
	CategoryBias map[cards.CardCategory]int
}

// ArchetypeProfile is the expected category-frequency fingerprint of an
// archetype, used by the detector's distance comparison. Frequencies are
// normalized over mainboard cards.
type ArchetypeProfile struct {
	Name    string
	Profile map[cards.CardCategory]float64
}

// Config is the full data-driven description of a format. Adapters carry no
// behavior of their own beyond interpreting one of these.
type Config struct {
	Format          Format
	Size            DeckSizeConfig
	CopyLimit       CopyLimitConfig
	Targets         CategoryTargets
	Weights         ScoreWeights
	Stages          StageThresholds
	Colors          ColorConstraint
	Modifiers       map[string]ArchetypeModifier
	Profiles        []ArchetypeProfile
	DistanceWeights map[cards.CardCategory]float64
}
