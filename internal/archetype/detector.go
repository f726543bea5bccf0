// Package archetype classifies a deck's strategic archetype from its
// composition, parameterized by the active format adapter.
package archetype

import (
	"sort"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
)

// Result is the outcome of classifying a deck.
type Result struct {
	Archetype  string  // one of the adapter's supported archetype names
	Confidence float64 // 0.2-1.0; 1.0 when the strategy was declared
	Declared   bool    // true when the deck's declared strategy was used
	// Frequencies is the normalized category fingerprint the comparison
	// ran against, kept for diagnostics.
	Frequencies map[cards.CardCategory]float64
}

// Detector classifies decks. It is stateless and safe for concurrent use.
type Detector struct{}

// NewDetector creates a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// minimum confidence floor for inferred archetypes; even a poor profile
// match carries some signal.
const minConfidence = 0.2

// Detect infers the deck's archetype by comparing its category-frequency
// fingerprint against each of the adapter's profiles with a weighted L1
// distance. On a distance tie the declared strategy wins if it names one of
// the tied profiles; otherwise the first profile in adapter order wins.
func (det *Detector) Detect(d *deck.Deck, byID map[string]*cards.Card, adapter format.Adapter) Result {
	freqs := categoryFrequencies(d, byID)
	profiles := adapter.Profiles()
	weights := adapter.DistanceWeights()

	if len(profiles) == 0 {
		return Result{Archetype: "", Confidence: minConfidence, Frequencies: freqs}
	}

	type scored struct {
		name     string
		distance float64
	}
	results := make([]scored, 0, len(profiles))
	maxDistance := 0.0
	for _, profile := range profiles {
		dist := weightedDistance(freqs, profile.Profile, weights)
		results = append(results, scored{name: profile.Name, distance: dist})
		if dist > maxDistance {
			maxDistance = dist
		}
	}

	// Stable sort keeps adapter profile order for equal distances.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].distance < results[j].distance
	})

	best := results[0]
	if d.Strategy != "" {
		// Declared strategy breaks ties among equally-near profiles.
		for _, r := range results {
			if r.distance == best.distance && r.name == d.Strategy {
				best = r
				break
			}
		}
	}

	confidence := minConfidence
	if maxDistance > 0 {
		confidence = 1.0 - best.distance/maxDistance
		if confidence < minConfidence {
			confidence = minConfidence
		}
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	return Result{
		Archetype:   best.name,
		Confidence:  confidence,
		Frequencies: freqs,
	}
}

// EffectiveArchetype prefers an explicit user-declared strategy over
// inference. Declared beats inferred: the choice changes scoring weights
// downstream, so the precedence is part of the contract.
func (det *Detector) EffectiveArchetype(d *deck.Deck, byID map[string]*cards.Card, adapter format.Adapter) Result {
	if d.Strategy != "" {
		return Result{
			Archetype:   d.Strategy,
			Confidence:  1.0,
			Declared:    true,
			Frequencies: categoryFrequencies(d, byID),
		}
	}
	return det.Detect(d, byID, adapter)
}

// categoryFrequencies computes the normalized frequency of each category
// across mainboard cards. A card in several categories counts toward each.
func categoryFrequencies(d *deck.Deck, byID map[string]*cards.Card) map[cards.CardCategory]float64 {
	counts := make(map[cards.CardCategory]int)
	total := 0
	for _, entry := range d.Cards {
		if entry.Role != deck.RoleMainboard {
			continue
		}
		card := byID[entry.CardID]
		if card == nil {
			continue
		}
		total += entry.Quantity
		for _, category := range cards.Categorize(card) {
			counts[category] += entry.Quantity
		}
	}

	freqs := make(map[cards.CardCategory]float64, len(counts))
	if total == 0 {
		return freqs
	}
	for category, count := range counts {
		freqs[category] = float64(count) / float64(total)
	}
	return freqs
}

// weightedDistance is the weighted L1 distance between the observed
// frequencies and a profile. Categories absent from the weight table count
// with weight 1.
func weightedDistance(observed, profile map[cards.CardCategory]float64, weights map[cards.CardCategory]float64) float64 {
	seen := make(map[cards.CardCategory]bool)
	distance := 0.0

	accumulate := func(category cards.CardCategory) {
		if seen[category] {
			return
		}
		seen[category] = true
		weight, ok := weights[category]
		if !ok {
			weight = 1.0
		}
		diff := observed[category] - profile[category]
		if diff < 0 {
			diff = -diff
		}
		distance += weight * diff
	}

	for category := range observed {
		accumulate(category)
	}
	for category := range profile {
		accumulate(category)
	}
	return distance
}
