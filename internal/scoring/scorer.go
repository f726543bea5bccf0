// Package scoring implements the format-agnostic synergy scoring algorithm.
// All format-specific knobs come in through the adapter's score weights; the
// scorer itself never branches on a format name.
package scoring

import (
	"math"
	"sort"

	"github.com/deckwise/deck-advisor/internal/cards"
)

// Score is the breakdown of a candidate card's synergy with a deck. The
// total is the clamped sum of the four sub-scores, each bounded by the
// adapter's per-axis weight ceiling.
type Score struct {
	Mechanical    float64 `json:"mechanical"`
	Strategic     float64 `json:"strategic"`
	FormatContext float64 `json:"formatContext"`
	Theme         float64 `json:"theme"`
	Total         float64 `json:"total"`
}

// Scorer computes synergy scores. It is stateless; Score is a pure function
// of (card, context) and never mutates its inputs.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score evaluates one candidate card against the scoring context.
func (s *Scorer) Score(candidate *cards.Card, ctx *Context) Score {
	weights := ctx.Adapter.ScoreWeightsFor(ctx.Stage, ctx.Archetype.Archetype)
	categories := cards.Categorize(candidate)

	score := Score{
		Mechanical:    s.mechanical(candidate, ctx, weights.Mechanical),
		Strategic:     s.strategic(categories, ctx, weights.Strategic),
		FormatContext: s.formatContext(candidate, categories, ctx, weights.FormatContext),
		Theme:         s.theme(candidate, ctx, weights.Theme),
	}

	total := score.Mechanical + score.Strategic + score.FormatContext + score.Theme
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	score.Total = round1(total)
	score.Mechanical = round1(score.Mechanical)
	score.Strategic = round1(score.Strategic)
	score.FormatContext = round1(score.FormatContext)
	score.Theme = round1(score.Theme)
	// Re-derive the total from the rounded parts so total always equals
	// the sum of the published sub-scores.
	score.Total = round1(score.Mechanical + score.Strategic + score.FormatContext + score.Theme)
	if score.Total > 100 {
		score.Total = 100
	}
	return score
}

// mechanical measures keyword overlap and curve fit: a card sharing
// abilities with the deck, or filling an underrepresented mana-value slot,
// scores higher.
func (s *Scorer) mechanical(candidate *cards.Card, ctx *Context, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}

	// Keyword overlap: average deck-share of the candidate's keywords,
	// worth up to 60% of the axis.
	overlap := 0.0
	if len(candidate.Keywords) > 0 {
		sum := 0.0
		for _, keyword := range candidate.Keywords {
			sum += ctx.keywordShare(keyword)
		}
		overlap = sum / float64(len(candidate.Keywords))
	}

	// Curve fit: filling a slot below the deck's average slot load is
	// worth up to 40% of the axis. Lands have no curve contribution.
	curveFit := 0.0
	if !candidate.HasType("Land") && ctx.curveTotal > 0 {
		slot := curveSlot(candidate.ManaValue)
		average := float64(ctx.curveTotal) / 8.0
		load := float64(ctx.Curve[slot])
		if load < average {
			curveFit = (average - load) / average
		}
	}

	return ceiling * (0.6*overlap + 0.4*curveFit)
}

// strategic rewards cards tagged with underfilled categories, proportional
// to the worst shortfall among the card's categories.
func (s *Scorer) strategic(categories []cards.CardCategory, ctx *Context, ceiling float64) float64 {
	if ceiling <= 0 || ctx.Gaps == nil {
		return 0
	}

	best := 0.0
	for _, category := range categories {
		analysis, ok := ctx.Gaps.ByCategory(category)
		if !ok || analysis.Status != StatusUnder || analysis.Target == 0 {
			continue
		}
		fill := float64(analysis.Shortfall()) / float64(analysis.Target)
		if fill > best {
			best = fill
		}
	}
	return ceiling * best
}

// formatContext applies the archetype modifier bonus scaled by detection
// confidence, plus a color-preference bonus or penalty.
func (s *Scorer) formatContext(candidate *cards.Card, categories []cards.CardCategory, ctx *Context, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}

	value := 0.0
	if mod, ok := ctx.Adapter.ModifierFor(ctx.Archetype.Archetype); ok {
		// The archetype bonus applies when the card plays a role the
		// archetype wants more of.
		for _, category := range categories {
			if bias, has := mod.CategoryBias[category]; has && bias > 0 {
				value += mod.ContextBonus * ctx.Archetype.Confidence
				break
			}
		}
	}

	// Color preference: half the remaining headroom as bonus for an
	// on-color card, a quarter of the ceiling as penalty for off-color.
	switch ctx.colorsMatch(candidate) {
	case 1:
		value += (ceiling - value) * 0.5
	case -1:
		value -= ceiling * 0.25
	}

	if value < 0 {
		value = 0
	}
	if value > ceiling {
		value = ceiling
	}
	return value
}

// theme gives a soft bonus for tribal fit: the candidate's creature
// subtypes already present in the deck.
func (s *Scorer) theme(candidate *cards.Card, ctx *Context, ceiling float64) float64 {
	if ceiling <= 0 || len(candidate.Subtypes) == 0 {
		return 0
	}

	best := 0.0
	for _, subtype := range candidate.Subtypes {
		if share := ctx.subtypeShare(subtype); share > best {
			best = share
		}
	}
	// A subtype share of 20%+ already reads as a theme deck.
	fit := best / 0.2
	if fit > 1 {
		fit = 1
	}
	return ceiling * fit
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Scored pairs a card with its score for ranking.
type Scored struct {
	Card       *cards.Card
	Score      Score
	Categories []cards.CardCategory
}

// SortScored orders suggestions deterministically: total descending, then
// raw mechanical descending, then card name ascending. Stable ordering is
// required for pagination.
func SortScored(list []Scored) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if a.Score.Mechanical != b.Score.Mechanical {
			return a.Score.Mechanical > b.Score.Mechanical
		}
		return a.Card.Name < b.Card.Name
	})
}
