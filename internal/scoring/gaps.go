package scoring

import (
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

// CategoryStatus compares a category's count against its target.
type CategoryStatus string

const (
	StatusUnder CategoryStatus = "under"
	StatusMet   CategoryStatus = "met"
	StatusOver  CategoryStatus = "over"
)

// CategoryAnalysis reports one category's fill level against the format's
// target for the deck's archetype.
type CategoryAnalysis struct {
	Category cards.CardCategory `json:"category"`
	Current  int                `json:"current"`
	Target   int                `json:"target"`
	Status   CategoryStatus     `json:"status"`
}

// Shortfall returns how many cards the category is missing.
func (a CategoryAnalysis) Shortfall() int {
	if a.Current >= a.Target {
		return 0
	}
	return a.Target - a.Current
}

// DeckGapAnalysis is the per-category breakdown used to steer suggestions
// toward underfilled categories.
type DeckGapAnalysis struct {
	Categories []CategoryAnalysis `json:"categories"`
}

// ByCategory returns the analysis for one category, if the format targets it.
func (g *DeckGapAnalysis) ByCategory(category cards.CardCategory) (CategoryAnalysis, bool) {
	for _, a := range g.Categories {
		if a.Category == category {
			return a, true
		}
	}
	return CategoryAnalysis{}, false
}

// AnalyzeGaps counts mainboard cards per category and compares against the
// adapter's targets. Categories without a target are skipped.
func AnalyzeGaps(d *deck.Deck, byID map[string]*cards.Card, targets format.CategoryTargets) *DeckGapAnalysis {
	counts := make(map[cards.CardCategory]int)
	for _, entry := range d.Cards {
		if entry.Role != deck.RoleMainboard {
			continue
		}
		card := byID[entry.CardID]
		if card == nil {
			continue
		}
		for _, category := range cards.Categorize(card) {
			counts[category] += entry.Quantity
		}
	}

	analysis := &DeckGapAnalysis{}
	for _, category := range cards.AllCategories {
		target, ok := targets[category]
		if !ok {
			continue
		}
		current := counts[category]
		status := StatusMet
		switch {
		case current < target:
			status = StatusUnder
		case current > target:
			status = StatusOver
		}
		analysis.Categories = append(analysis.Categories, CategoryAnalysis{
			Category: category,
			Current:  current,
			Target:   target,
			Status:   status,
		})
	}
	return analysis
}
