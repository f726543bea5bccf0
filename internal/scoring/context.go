package scoring

import (
	"strings"

	"github.com/deckwise/deck-advisor/internal/archetype"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

// Context carries everything a single scoring call needs: the deck, its
// detected stage and archetype, the adapter in use, and precomputed deck
// statistics. Contexts are built fresh per evaluation and never persisted.
type Context struct {
	Deck      *deck.Deck
	Cards     map[string]*cards.Card
	Adapter   format.Adapter
	Stage     format.Stage
	Archetype archetype.Result
	Gaps      *DeckGapAnalysis

	// Curve holds nonland mainboard counts per mana-value slot, slots 0-7
	// with 7 grouping everything above.
	Curve         map[int]int
	curveTotal    int
	keywordCounts map[string]int
	subtypeCounts map[string]int
	colorPref     map[string]bool
}

// NewContext precomputes deck statistics for scoring. The detector's
// effective archetype (declared beats inferred) picks the weights and
// targets used downstream.
func NewContext(d *deck.Deck, byID map[string]*cards.Card, adapter format.Adapter, detector *archetype.Detector) *Context {
	result := detector.EffectiveArchetype(d, byID, adapter)
	targets := adapter.CategoryTargetsFor(result.Archetype)

	ctx := &Context{
		Deck:          d,
		Cards:         byID,
		Adapter:       adapter,
		Stage:         adapter.StageOf(d),
		Archetype:     result,
		Gaps:          AnalyzeGaps(d, byID, targets),
		Curve:         make(map[int]int),
		keywordCounts: make(map[string]int),
		subtypeCounts: make(map[string]int),
		colorPref:     make(map[string]bool),
	}

	for _, color := range d.ColorIdentity {
		ctx.colorPref[strings.ToUpper(color)] = true
	}
	if d.CommanderID != "" {
		if commander := byID[d.CommanderID]; commander != nil {
			for _, color := range commander.ColorIdentity {
				ctx.colorPref[strings.ToUpper(color)] = true
			}
		}
	}

	for _, entry := range d.Cards {
		if entry.Role != deck.RoleMainboard {
			continue
		}
		card := byID[entry.CardID]
		if card == nil {
			continue
		}
		if !card.HasType("Land") {
			ctx.Curve[curveSlot(card.ManaValue)] += entry.Quantity
			ctx.curveTotal += entry.Quantity
		}
		for _, keyword := range card.Keywords {
			ctx.keywordCounts[strings.ToLower(keyword)] += entry.Quantity
		}
		if card.HasType("Creature") {
			for _, subtype := range card.Subtypes {
				ctx.subtypeCounts[strings.ToLower(subtype)] += entry.Quantity
			}
		}
	}

	return ctx
}

// curveSlot buckets a mana value into curve slots 0-7.
func curveSlot(manaValue float64) int {
	slot := int(manaValue)
	if slot < 0 {
		slot = 0
	}
	if slot > 7 {
		slot = 7
	}
	return slot
}

// keywordShare returns the deck-frequency of a keyword, 0-1.
func (c *Context) keywordShare(keyword string) float64 {
	if c.curveTotal == 0 {
		return 0
	}
	count := c.keywordCounts[strings.ToLower(keyword)]
	share := float64(count) / float64(c.curveTotal)
	if share > 1 {
		share = 1
	}
	return share
}

// subtypeShare returns the deck-frequency of a creature subtype, 0-1.
func (c *Context) subtypeShare(subtype string) float64 {
	if c.curveTotal == 0 {
		return 0
	}
	count := c.subtypeCounts[strings.ToLower(subtype)]
	share := float64(count) / float64(c.curveTotal)
	if share > 1 {
		share = 1
	}
	return share
}

// colorsMatch classifies a card against the deck's color preference:
// 1 = fully inside, 0 = no preference declared or colorless card,
// -1 = at least one color outside the preference.
func (c *Context) colorsMatch(card *cards.Card) int {
	if len(c.colorPref) == 0 || len(card.Colors) == 0 {
		return 0
	}
	for _, color := range card.Colors {
		if !c.colorPref[strings.ToUpper(color)] {
			return -1
		}
	}
	return 1
}
