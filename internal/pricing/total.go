package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/popupcity/portal_api/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Totals is the priced outcome of a roster.
type Totals struct {
	Total          decimal.Decimal `json:"total"`
	OriginalTotal  decimal.Decimal `json:"originalTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Total:          t.Total.Add(o.Total),
		OriginalTotal:  t.OriginalTotal.Add(o.OriginalTotal),
		DiscountAmount: t.DiscountAmount.Add(o.DiscountAmount),
	}
}

// PriceStrategy names how an attendee's passes are priced.
type PriceStrategy string

const (
	PricePatreon          PriceStrategy = "patreon"
	PriceMonthly          PriceStrategy = "monthly"
	PriceMonthlyPurchased PriceStrategy = "monthly_purchased"
	PriceWeekly           PriceStrategy = "weekly"
)

// PriceStrategyFor picks the pricing rule for one attendee's passes, first
// match wins: a held membership, a selected month, a month bought earlier,
// and otherwise plain weekly pricing.
func PriceStrategyFor(passes []models.Pass) PriceStrategy {
	var hasMonth, hasMonthPurchased bool
	for _, p := range passes {
		if p.Category.IsMembership() && p.Selected {
			return PricePatreon
		}
		if p.Category == models.ProductCategoryMonth {
			hasMonth = hasMonth || p.Selected
			hasMonthPurchased = hasMonthPurchased || p.Purchased
		}
	}
	switch {
	case hasMonth:
		return PriceMonthly
	case hasMonthPurchased:
		return PriceMonthlyPurchased
	default:
		return PriceWeekly
	}
}

// CalculateTotal prices every attendee independently and sums the results.
func CalculateTotal(roster []models.PassAttendee, discount models.Discount) Totals {
	sum := zeroTotals()
	for _, a := range roster {
		sum = sum.Add(AttendeeTotal(a.Products, discount))
	}
	return sum
}

// Payable returns the amount to charge for roster. Each attendee's charge is
// clamped at zero before summing, so a credit stays with its attendee. A
// membership's benefit is already reflected in zeroed prices, so the discount
// is only taken off when no membership is held.
func Payable(roster []models.PassAttendee, discount models.Discount) decimal.Decimal {
	member := HoldsMembership(roster)
	sum := decimal.Zero
	for _, a := range roster {
		t := AttendeeTotal(a.Products, discount)
		charge := t.Total
		if !member {
			charge = charge.Sub(t.DiscountAmount)
		}
		if charge.IsPositive() {
			sum = sum.Add(charge)
		}
	}
	return sum
}

// HoldsMembership reports whether any attendee has a membership selected or
// already bought.
func HoldsMembership(roster []models.PassAttendee) bool {
	for _, a := range roster {
		for _, p := range a.Products {
			if p.Category.IsMembership() && (p.Selected || p.Purchased) {
				return true
			}
		}
	}
	return false
}

// AttendeeTotal prices a single attendee's passes.
func AttendeeTotal(passes []models.Pass, discount models.Discount) Totals {
	switch PriceStrategyFor(passes) {
	case PricePatreon:
		return patreonTotal(passes)
	case PriceMonthly:
		return monthlyTotal(passes, discount)
	case PriceMonthlyPurchased:
		return monthlyPurchasedTotal(passes)
	default:
		return weeklyTotal(passes, discount)
	}
}

// baseline selects which passes make up the struck-through reference total.
type baseline struct {
	categories    []models.ProductCategory // nil counts every category
	skipPurchased bool
	// fallbackOriginal uses OriginalPrice when ComparePrice is absent.
	fallbackOriginal bool
}

var (
	allSelected   = baseline{skipPurchased: true, fallbackOriginal: true}
	selectedWeeks = baseline{categories: []models.ProductCategory{models.ProductCategoryWeek}}
)

func (b baseline) includes(p models.Pass) bool {
	if !p.Selected || (b.skipPurchased && p.Purchased) {
		return false
	}
	if b.categories == nil {
		return true
	}
	for _, c := range b.categories {
		if p.Category == c {
			return true
		}
	}
	return false
}

func (b baseline) total(passes []models.Pass) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range passes {
		if !b.includes(p) {
			continue
		}
		switch {
		case p.ComparePrice.Valid:
			sum = sum.Add(p.ComparePrice.Decimal)
		case b.fallbackOriginal && p.OriginalPrice.Valid:
			sum = sum.Add(p.OriginalPrice.Decimal)
		}
	}
	return sum
}

func patreonTotal(passes []models.Pass) Totals {
	t := zeroTotals()
	for _, p := range passes {
		if p.Category.IsMembership() && p.Selected {
			t.Total = p.Price
			break
		}
	}
	t.OriginalTotal = allSelected.total(passes)
	t.DiscountAmount = membershipBenefit(passes, false)
	return t
}

func monthlyTotal(passes []models.Pass, discount models.Discount) Totals {
	monthPrice := decimal.Zero
	paid := decimal.Zero
	found := false
	for _, p := range passes {
		if !found && p.Category == models.ProductCategoryMonth && p.Selected && !p.Purchased {
			monthPrice, found = p.Price, true
		}
		if p.Purchased && !p.Category.IsMembership() {
			paid = paid.Add(p.Price)
		}
	}

	original := selectedWeeks.total(passes)
	return Totals{
		Total:          monthPrice.Sub(paid),
		OriginalTotal:  original,
		DiscountAmount: discountFor(passes, original, discount),
	}
}

// monthlyPurchasedTotal prices week changes made after a month was bought:
// dropped weeks are credited against the month already paid. Coupons do not
// apply here.
func monthlyPurchasedTotal(passes []models.Pass) Totals {
	anyWeek := false
	for _, p := range passes {
		if p.Category == models.ProductCategoryWeek && p.Selected {
			anyWeek = true
			break
		}
	}
	if !anyWeek {
		return zeroTotals()
	}

	monthPaid := decimal.Zero
	dropped := decimal.Zero
	found := false
	for _, p := range passes {
		switch {
		case !found && p.Category == models.ProductCategoryMonth && p.Purchased:
			monthPaid, found = p.Price, true
		case p.Category == models.ProductCategoryWeek && p.Purchased && !p.Selected:
			dropped = dropped.Add(p.Price)
		}
	}

	return Totals{
		Total:          dropped.Sub(monthPaid),
		OriginalTotal:  selectedWeeks.total(passes),
		DiscountAmount: decimal.Zero,
	}
}

func weeklyTotal(passes []models.Pass, discount models.Discount) Totals {
	total := decimal.Zero
	for _, p := range passes {
		if p.Category != models.ProductCategoryWeek || !p.Selected {
			continue
		}
		if p.Purchased {
			total = total.Sub(p.Price)
		} else {
			total = total.Add(p.Price)
		}
	}

	original := selectedWeeks.total(passes)
	return Totals{
		Total:          total,
		OriginalTotal:  original,
		DiscountAmount: discountFor(passes, original, discount),
	}
}

// discountFor returns the discount of a non-membership attendee. Passes
// covered by a membership held elsewhere in the party are discounted at
// their reference price and a coupon does not stack on top of that.
func discountFor(passes []models.Pass, original decimal.Decimal, discount models.Discount) decimal.Decimal {
	if covered := membershipBenefit(passes, true); !covered.IsZero() {
		return covered
	}
	if discount.Value.IsZero() {
		return decimal.Zero
	}
	return original.Mul(discount.Value).Div(hundred)
}

// membershipBenefit sums the reference price of selected, unpaid,
// non-membership passes. With coveredOnly set, only passes made free by a
// membership held elsewhere in the party count.
func membershipBenefit(passes []models.Pass, coveredOnly bool) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range passes {
		if !p.Selected || p.Purchased || p.Category.IsMembership() {
			continue
		}
		if coveredOnly && !p.MembershipCovered {
			continue
		}
		sum = sum.Add(p.OriginalPrice.Decimal)
	}
	return sum
}

func zeroTotals() Totals {
	return Totals{Total: decimal.Zero, OriginalTotal: decimal.Zero, DiscountAmount: decimal.Zero}
}
