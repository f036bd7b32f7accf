package pricing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/popupcity/portal_api/internal/models"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nullDec(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }

func nullDecInvalid() decimal.NullDecimal { return decimal.NullDecimal{} }

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %d, got %s", field, want, got)
}

func weekPass(id int, attendee models.PassAttendee) models.Pass {
	return models.Pass{
		ID:               id,
		Name:             fmt.Sprintf("Week %d", id),
		Category:         models.ProductCategoryWeek,
		Price:            dec(50),
		OriginalPrice:    nullDec(50),
		ComparePrice:     nullDec(60),
		AttendeeID:       attendee.ID,
		AttendeeCategory: attendee.Category,
	}
}

func monthPass(id int, attendee models.PassAttendee) models.Pass {
	return models.Pass{
		ID:               id,
		Name:             "Month",
		Category:         models.ProductCategoryMonth,
		Price:            dec(180),
		OriginalPrice:    nullDec(180),
		ComparePrice:     nullDec(240),
		AttendeeID:       attendee.ID,
		AttendeeCategory: attendee.Category,
	}
}

func patreonPass(id int, attendee models.PassAttendee) models.Pass {
	return models.Pass{
		ID:               id,
		Name:             "Patron",
		Category:         models.ProductCategoryPatreon,
		Price:            dec(500),
		OriginalPrice:    nullDec(500),
		AttendeeID:       attendee.ID,
		AttendeeCategory: attendee.Category,
	}
}

// newAttendee builds an attendee holding four weeks (ids base+1..base+4) and
// a month (id base+5).
func newAttendee(id int, category models.AttendeeCategory, base int) models.PassAttendee {
	a := models.PassAttendee{ID: id, Name: fmt.Sprintf("attendee-%d", id), Category: category}
	for i := 1; i <= 4; i++ {
		a.Products = append(a.Products, weekPass(base+i, a))
	}
	a.Products = append(a.Products, monthPass(base+5, a))
	return a
}

func familyRoster() []models.PassAttendee {
	main := newAttendee(1, models.AttendeeMain, 100)
	main.Products = append(main.Products, patreonPass(900, main))
	spouse := newAttendee(2, models.AttendeeSpouse, 200)
	return []models.PassAttendee{main, spouse}
}

func pass(roster []models.PassAttendee, attendeeID, productID int) models.Pass {
	for _, a := range roster {
		if a.ID != attendeeID {
			continue
		}
		for _, p := range a.Products {
			if p.ID == productID {
				return p
			}
		}
	}
	return models.Pass{}
}

func toggleIn(roster []models.PassAttendee, attendeeID, productID int) []models.PassAttendee {
	return Resolve(roster, attendeeID, pass(roster, attendeeID, productID))
}

// snapshot renders a roster into comparable strings so that decimals with
// different internal scale still compare equal.
func snapshot(roster []models.PassAttendee) []string {
	var out []string
	nd := func(n decimal.NullDecimal) string {
		if !n.Valid {
			return "null"
		}
		return n.Decimal.String()
	}
	for _, a := range roster {
		for _, p := range a.Products {
			out = append(out, fmt.Sprintf("a%d/p%d sel=%t pur=%t dis=%t cov=%t price=%s orig=%s cmp=%s att=%d",
				a.ID, p.ID, p.Selected, p.Purchased, p.Disabled, p.MembershipCovered,
				p.Price.String(), nd(p.OriginalPrice), nd(p.ComparePrice), p.AttendeeID))
		}
	}
	return out
}
