// Package pricing holds the pass selection rules and the total calculation
// used by the passes checkout. Every function here is pure: rosters go in,
// new rosters or totals come out, and inputs are never modified.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/popupcity/portal_api/internal/models"
)

// weeksPerMonth is the number of week passes a month pass covers.
const weeksPerMonth = 4

// Strategy names the coupling rule applied when a pass is toggled.
type Strategy string

const (
	StrategyExclusive Strategy = "exclusive"
	StrategyPatreon   Strategy = "patreon"
	StrategyMonth     Strategy = "month"
	StrategyWeek      Strategy = "week"
)

// StrategyFor picks the selection rule for a pass. Exclusivity wins over
// category; unknown categories fall back to the exclusive rule.
func StrategyFor(p models.Pass) Strategy {
	switch {
	case p.Exclusive:
		return StrategyExclusive
	case p.Category.IsMembership():
		return StrategyPatreon
	case p.Category == models.ProductCategoryMonth:
		return StrategyMonth
	case p.Category == models.ProductCategoryWeek:
		return StrategyWeek
	default:
		return StrategyExclusive
	}
}

// Resolve toggles product for the attendee identified by attendeeID and
// returns the resulting roster. The current selection state is read from the
// roster, not from product; only product.ID is used to locate the record.
// Unknown attendees or products leave the roster unchanged.
func Resolve(roster []models.PassAttendee, attendeeID int, product models.Pass) []models.PassAttendee {
	next := CloneRoster(roster)

	ai := attendeeIndex(next, attendeeID)
	if ai < 0 {
		return next
	}
	pi := passIndex(next[ai].Products, product.ID)
	if pi < 0 {
		return next
	}

	switch StrategyFor(next[ai].Products[pi]) {
	case StrategyPatreon:
		resolvePatreon(next, ai, pi)
	case StrategyMonth:
		resolveMonth(&next[ai], pi)
	case StrategyWeek:
		resolveWeek(&next[ai], pi)
	default:
		resolveExclusive(&next[ai], pi)
	}
	return next
}

// toggle flips the selection of a pass and binds it to the attendee when it
// becomes selected. It returns the new selection state.
func toggle(a *models.PassAttendee, i int) bool {
	p := &a.Products[i]
	p.Selected = !p.Selected
	if p.Selected {
		p.AttendeeID = a.ID
	}
	return p.Selected
}

func resolveExclusive(a *models.PassAttendee, target int) {
	exclusive := a.Products[target].Exclusive
	selecting := toggle(a, target)
	if exclusive {
		a.Products[target].Disabled = false
	}

	for i := range a.Products {
		p := &a.Products[i]
		if i == target || !exclusive || !p.Exclusive || p.Purchased {
			continue
		}
		p.Disabled = selecting && p.Selected
		if selecting {
			p.Selected = false
		}
	}
}

// resolvePatreon applies a membership toggle across the whole party: while a
// membership is held every other pass is free, and releasing it restores the
// reference prices. Purchased records keep their price.
func resolvePatreon(roster []models.PassAttendee, ai, pi int) {
	target := &roster[ai].Products[pi]
	if target.OriginalPrice.Valid {
		target.Price = target.OriginalPrice.Decimal
	}
	selecting := toggle(&roster[ai], pi)

	for a := range roster {
		for i := range roster[a].Products {
			if a == ai && i == pi {
				continue
			}
			p := &roster[a].Products[i]
			if p.Purchased {
				continue
			}
			if selecting {
				if p.Category.IsMembership() {
					p.Selected = false
				}
				p.Price = decimal.Zero
				p.MembershipCovered = true
				continue
			}
			if p.OriginalPrice.Valid {
				p.Price = p.OriginalPrice.Decimal
			}
			p.MembershipCovered = false
		}
	}
}

// resolveMonth toggles a month and moves the attendee's unpurchased weeks
// with it, so a month is selected exactly when its weeks are.
func resolveMonth(a *models.PassAttendee, target int) {
	selected := toggle(a, target)
	for i := range a.Products {
		p := &a.Products[i]
		if p.Category != models.ProductCategoryWeek || p.Purchased {
			continue
		}
		p.Selected = selected
		if selected {
			p.AttendeeID = a.ID
		}
	}
}

// resolveWeek toggles a week and keeps the matching month in step: the month
// is selected exactly when the selected weeks form complete sets.
func resolveWeek(a *models.PassAttendee, target int) {
	toggle(a, target)

	selectedWeeks := 0
	for _, p := range a.Products {
		if p.Category == models.ProductCategoryWeek && p.Selected {
			selectedWeeks++
		}
	}

	mi := monthIndex(a)
	if mi < 0 || a.Products[mi].Purchased {
		return
	}
	month := &a.Products[mi]
	month.Selected = selectedWeeks != 0 && selectedWeeks%weeksPerMonth == 0
	if month.Selected {
		month.AttendeeID = a.ID
	}
}

// monthIndex finds the month pass matching the attendee's category. A month
// without an attendee category is used only if no exact match exists.
func monthIndex(a *models.PassAttendee) int {
	fallback := -1
	for i, p := range a.Products {
		if p.Category != models.ProductCategoryMonth {
			continue
		}
		if p.AttendeeCategory == a.Category {
			return i
		}
		if p.AttendeeCategory == "" && fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func attendeeIndex(roster []models.PassAttendee, id int) int {
	for i := range roster {
		if roster[i].ID == id {
			return i
		}
	}
	return -1
}

func passIndex(passes []models.Pass, id int) int {
	for i := range passes {
		if passes[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneRoster returns a deep copy of roster.
func CloneRoster(roster []models.PassAttendee) []models.PassAttendee {
	if roster == nil {
		return nil
	}
	out := make([]models.PassAttendee, len(roster))
	for i, a := range roster {
		out[i] = a
		if a.Products != nil {
			out[i].Products = append([]models.Pass(nil), a.Products...)
		}
	}
	return out
}
