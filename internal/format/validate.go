package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
)

// ValidationKind distinguishes the rule a deck violates.
type ValidationKind string

const (
	ViolationDeckTooSmall     ValidationKind = "deck-too-small"
	ViolationDeckTooLarge     ValidationKind = "deck-too-large"
	ViolationSideboardTooBig  ValidationKind = "sideboard-too-large"
	ViolationCopyLimit        ValidationKind = "copy-limit"
	ViolationSingleton        ValidationKind = "singleton-violation"
	ViolationColorIdentity    ValidationKind = "color-identity"
	ViolationMissingCommander ValidationKind = "missing-commander"
	ViolationIllegalCard      ValidationKind = "illegal-card"
)

// ValidationError describes one rule violation. Violations are returned as
// data so callers can render them; an invalid deck is an expected state
// during editing, never an exception.
type ValidationError struct {
	Kind     ValidationKind `json:"kind"`
	CardID   string         `json:"cardId,omitempty"`
	CardName string         `json:"cardName,omitempty"`
	Detail   string         `json:"detail"`
}

// ValidationResult wraps the violation list for transport.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// ValidateDeck implements the Adapter contract: size bounds, copy limits,
// color identity containment, sideboard rules, and per-card legality.
func (a *adapter) ValidateDeck(d *deck.Deck, byID map[string]*cards.Card) []ValidationError {
	var errs []ValidationError

	size := d.MainboardSize()
	if a.cfg.Size.RequiresCommander {
		// Commander counts toward the deck size in commander-style
		// formats.
		for _, c := range d.Cards {
			if c.Role == deck.RoleCommander {
				size += c.Quantity
			}
		}
	}

	if size < a.cfg.Size.MinMainboard {
		errs = append(errs, ValidationError{
			Kind:   ViolationDeckTooSmall,
			Detail: fmt.Sprintf("deck has %d cards, format minimum is %d", size, a.cfg.Size.MinMainboard),
		})
	}
	if a.cfg.Size.MaxMainboard > 0 && size > a.cfg.Size.MaxMainboard {
		errs = append(errs, ValidationError{
			Kind:   ViolationDeckTooLarge,
			Detail: fmt.Sprintf("deck has %d cards, format maximum is %d", size, a.cfg.Size.MaxMainboard),
		})
	}
	if sb := d.SideboardSize(); sb > a.cfg.Size.SideboardCap {
		errs = append(errs, ValidationError{
			Kind:   ViolationSideboardTooBig,
			Detail: fmt.Sprintf("sideboard has %d cards, cap is %d", sb, a.cfg.Size.SideboardCap),
		})
	}

	if a.cfg.Size.RequiresCommander {
		commanders := 0
		for _, c := range d.Cards {
			if c.Role == deck.RoleCommander {
				commanders += c.Quantity
			}
		}
		if commanders != 1 {
			errs = append(errs, ValidationError{
				Kind:   ViolationMissingCommander,
				Detail: fmt.Sprintf("format requires exactly one commander, deck has %d", commanders),
			})
		}
	}

	errs = append(errs, a.validateCopies(d, byID)...)
	errs = append(errs, a.validateColors(d, byID)...)
	errs = append(errs, a.validateLegality(d, byID)...)

	return errs
}

// validateCopies checks the per-card copy limit. Basic lands are exempt.
// Sideboard copies count toward the limit in non-singleton formats only;
// singleton formats check the mainboard+commander quantity.
func (a *adapter) validateCopies(d *deck.Deck, byID map[string]*cards.Card) []ValidationError {
	var errs []ValidationError

	totals := make(map[string]int)
	for _, c := range d.Cards {
		if a.cfg.Size.Singleton && c.Role == deck.RoleSideboard {
			continue
		}
		totals[c.CardID] += c.Quantity
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		qty := totals[id]
		card := byID[id]
		if card != nil && card.IsBasicLand() {
			continue
		}
		if qty <= a.cfg.CopyLimit.MaxCopies {
			continue
		}
		kind := ViolationCopyLimit
		if a.cfg.Size.Singleton {
			kind = ViolationSingleton
		}
		errs = append(errs, ValidationError{
			Kind:     kind,
			CardID:   id,
			CardName: cardName(card),
			Detail:   fmt.Sprintf("%d copies exceed the limit of %d", qty, a.cfg.CopyLimit.MaxCopies),
		})
	}

	return errs
}

// validateColors enforces color identity containment when the format
// constrains colors. The commander's identity wins over the declared one.
func (a *adapter) validateColors(d *deck.Deck, byID map[string]*cards.Card) []ValidationError {
	if a.cfg.Colors != ColorConstraintIdentity {
		return nil
	}

	identity := d.ColorIdentity
	if d.CommanderID != "" {
		if commander := byID[d.CommanderID]; commander != nil {
			identity = commander.ColorIdentity
		}
	}

	var errs []ValidationError
	for _, c := range d.Cards {
		card := byID[c.CardID]
		if card == nil || c.Role == deck.RoleCommander {
			continue
		}
		if !card.IdentityWithin(identity) {
			errs = append(errs, ValidationError{
				Kind:     ViolationColorIdentity,
				CardID:   c.CardID,
				CardName: card.Name,
				Detail: fmt.Sprintf("color identity %s is outside the deck identity %s",
					strings.Join(card.ColorIdentity, ""), strings.Join(identity, "")),
			})
		}
	}
	return errs
}

// validateLegality flags banned, restricted, and not-legal cards.
func (a *adapter) validateLegality(d *deck.Deck, byID map[string]*cards.Card) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for _, c := range d.Cards {
		if seen[c.CardID] {
			continue
		}
		seen[c.CardID] = true

		card := byID[c.CardID]
		if card == nil {
			continue
		}
		if status := a.LegalityOf(card); status != cards.LegalityLegal {
			errs = append(errs, ValidationError{
				Kind:     ViolationIllegalCard,
				CardID:   c.CardID,
				CardName: card.Name,
				Detail:   fmt.Sprintf("card is %s in %s", status, a.cfg.Format),
			})
		}
	}
	return errs
}

func cardName(card *cards.Card) string {
	if card == nil {
		return ""
	}
	return card.Name
}
