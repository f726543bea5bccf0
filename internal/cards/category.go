package cards

import "strings"

// CardCategory is a functional role a card can play in a deck. Categories
// drive gap analysis and suggestion filtering.
type CardCategory string

const (
	CategoryRamp        CardCategory = "ramp"
	CategoryRemoval     CardCategory = "removal"
	CategoryCardDraw    CardCategory = "card_draw"
	CategoryThreat      CardCategory = "threat"
	CategoryCounter     CardCategory = "counterspell"
	CategoryBoardWipe   CardCategory = "board_wipe"
	CategoryLand        CardCategory = "land"
	CategoryUtility     CardCategory = "utility"
	CategoryAggression  CardCategory = "aggression"
	CategoryTribal      CardCategory = "tribal"
	CategoryProtection  CardCategory = "protection"
	CategoryGraveyard   CardCategory = "graveyard"
	CategoryTokens      CardCategory = "tokens"
)

// AllCategories lists every category in a stable order.
var AllCategories = []CardCategory{
	CategoryRamp,
	CategoryRemoval,
	CategoryCardDraw,
	CategoryThreat,
	CategoryCounter,
	CategoryBoardWipe,
	CategoryLand,
	CategoryUtility,
	CategoryAggression,
	CategoryTribal,
	CategoryProtection,
	CategoryGraveyard,
	CategoryTokens,
}

// Categorize derives the functional categories of a card from its type line
// and rules text. A card can belong to several categories; every non-land
// card belongs to at least CategoryUtility.
func Categorize(card *Card) []CardCategory {
	if card == nil {
		return nil
	}

	var categories []CardCategory
	text := strings.ToLower(card.OracleText)

	if card.HasType("Land") {
		categories = append(categories, CategoryLand)
		if strings.Contains(text, "sacrifice") || strings.Contains(text, "search your library") {
			categories = append(categories, CategoryUtility)
		}
		return categories
	}

	// Ramp: mana production or land fetching on a nonland card.
	if strings.Contains(text, "add {") ||
		(strings.Contains(text, "search your library for a") && strings.Contains(text, "land")) {
		categories = append(categories, CategoryRamp)
	}

	// Removal: destroy/exile/damage pointed at permanents or creatures.
	if strings.Contains(text, "destroy target") ||
		strings.Contains(text, "exile target") ||
		strings.Contains(text, "deals damage to target creature") ||
		strings.Contains(text, "damage to any target") {
		categories = append(categories, CategoryRemoval)
	}

	// Board wipes: symmetrical sweepers.
	if strings.Contains(text, "destroy all") ||
		strings.Contains(text, "exile all") ||
		strings.Contains(text, "each creature") && strings.Contains(text, "damage") {
		categories = append(categories, CategoryBoardWipe)
	}

	// Card advantage.
	if strings.Contains(text, "draw a card") ||
		strings.Contains(text, "draw two cards") ||
		strings.Contains(text, "draw three cards") ||
		strings.Contains(text, "draws a card") {
		categories = append(categories, CategoryCardDraw)
	}

	// Counterspells.
	if strings.Contains(text, "counter target") {
		categories = append(categories, CategoryCounter)
	}

	// Threats: creatures and planeswalkers that win the game.
	if card.HasType("Creature") || card.HasType("Planeswalker") {
		categories = append(categories, CategoryThreat)
		if card.ManaValue <= 2 && card.HasType("Creature") {
			categories = append(categories, CategoryAggression)
		}
	}

	// Tribal payoffs reference a creature type in rules text.
	for _, subtype := range card.Subtypes {
		if strings.Contains(text, strings.ToLower(subtype)) && card.HasType("Creature") {
			categories = append(categories, CategoryTribal)
			break
		}
	}

	// Protection effects.
	if strings.Contains(text, "hexproof") ||
		strings.Contains(text, "indestructible") ||
		strings.Contains(text, "protection from") ||
		strings.Contains(text, "gains shroud") {
		categories = append(categories, CategoryProtection)
	}

	// Graveyard interaction.
	if strings.Contains(text, "from your graveyard") ||
		strings.Contains(text, "in your graveyard") {
		categories = append(categories, CategoryGraveyard)
	}

	// Token generation.
	if strings.Contains(text, "create") && strings.Contains(text, "token") {
		categories = append(categories, CategoryTokens)
	}

	if len(categories) == 0 {
		categories = append(categories, CategoryUtility)
	}

	return categories
}

// HasCategory reports whether the card falls into the given category.
func HasCategory(card *Card, category CardCategory) bool {
	for _, c := range Categorize(card) {
		if c == category {
			return true
		}
	}
	return false
}
