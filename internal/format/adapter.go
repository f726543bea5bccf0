// Package format encodes per-format deck construction rules and score
// weighting behind a single adapter seam. The scorer, detector, and
// analyzers are written once against this interface and never branch on a
// format name.
package format

import (
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
)

// Format identifies a supported rule set.
type Format string

const (
	FormatStandard  Format = "standard"
	FormatModern    Format = "modern"
	FormatCommander Format = "commander"
	FormatBrawl     Format = "brawl"
)

// Adapter exposes one format's construction rules and scoring knobs.
// Adapter instances are immutable singletons, safe for concurrent use.
type Adapter interface {
	// Format returns the format this adapter encodes.
	Format() Format

	// ValidateDeck checks size bounds, copy limits, color identity
	// containment, and sideboard rules. An empty result means the deck is
	// legal. Violations are data, not errors: in-progress decks are
	// expected to fail validation.
	ValidateDeck(d *deck.Deck, byID map[string]*cards.Card) []ValidationError

	// LegalityOf reads the card's legality in this format.
	LegalityOf(card *cards.Card) cards.LegalityStatus

	// ScoreWeightsFor returns the base score weights, adjusted by
	// archetype modifiers for the detected archetype.
	ScoreWeightsFor(stage Stage, archetype string) ScoreWeights

	// CategoryTargetsFor returns ideal category counts, with any
	// archetype-specific bias applied.
	CategoryTargetsFor(archetype string) CategoryTargets

	// StageOf classifies how far along the deck build is.
	StageOf(d *deck.Deck) Stage

	// Profiles returns the archetype fingerprints the detector compares
	// against.
	Profiles() []ArchetypeProfile

	// DistanceWeights returns the per-category weights used in archetype
	// distance comparison.
	DistanceWeights() map[cards.CardCategory]float64

	// ModifierFor returns the archetype modifier for the given archetype,
	// if the format defines one.
	ModifierFor(archetype string) (ArchetypeModifier, bool)
}

// adapter is the single data-driven implementation shared by every format
// variant. Per-format behavior lives entirely in the Config.
type adapter struct {
	cfg Config
}

func newAdapter(cfg Config) *adapter {
	return &adapter{cfg: cfg}
}

func (a *adapter) Format() Format { return a.cfg.Format }

func (a *adapter) LegalityOf(card *cards.Card) cards.LegalityStatus {
	if card == nil {
		return cards.LegalityNotLegal
	}
	return card.LegalityIn(string(a.cfg.Format))
}

func (a *adapter) StageOf(d *deck.Deck) Stage {
	if a.cfg.Size.MinMainboard == 0 {
		return StageLate
	}
	filled := float64(d.MainboardSize()) / float64(a.cfg.Size.MinMainboard)
	switch {
	case filled < a.cfg.Stages.EarlyBelow:
		return StageEarly
	case filled < a.cfg.Stages.MidBelow:
		return StageMid
	default:
		return StageLate
	}
}

func (a *adapter) ScoreWeightsFor(stage Stage, archetype string) ScoreWeights {
	weights := a.cfg.Weights

	// Early builds care more about raw strategic fit than fine-grained
	// mechanical overlap; there is not enough deck yet to overlap with.
	if stage == StageEarly {
		shift := weights.Mechanical * 0.25
		weights.Mechanical -= shift
		weights.Strategic += shift
	}

	if mod, ok := a.cfg.Modifiers[archetype]; ok {
		weights.FormatContext += mod.ContextBonus
		if weights.FormatContext > a.cfg.Weights.FormatContext {
			weights.FormatContext = a.cfg.Weights.FormatContext
		}
	}

	return weights
}

func (a *adapter) CategoryTargetsFor(archetype string) CategoryTargets {
	targets := make(CategoryTargets, len(a.cfg.Targets))
	for category, count := range a.cfg.Targets {
		targets[category] = count
	}
	if mod, ok := a.cfg.Modifiers[archetype]; ok {
		for category, bias := range mod.CategoryBias {
			targets[category] += bias
			if targets[category] < 0 {
				targets[category] = 0
			}
		}
	}
	return targets
}

func (a *adapter) Profiles() []ArchetypeProfile { return a.cfg.Profiles }

func (a *adapter) DistanceWeights() map[cards.CardCategory]float64 {
	return a.cfg.DistanceWeights
}

func (a *adapter) ModifierFor(archetype string) (ArchetypeModifier, bool) {
	mod, ok := a.cfg.Modifiers[archetype]
	return mod, ok
}
