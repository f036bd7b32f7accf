package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popupcity/portal_api/internal/models"
)

func assertTotals(t *testing.T, got Totals, total, original, discount int64) {
	t.Helper()
	assertDecimal(t, total, got.Total, "total")
	assertDecimal(t, original, got.OriginalTotal, "originalTotal")
	assertDecimal(t, discount, got.DiscountAmount, "discountAmount")
}

func TestCalculateTotal_WeeksThenMonth(t *testing.T) {
	roster := []models.PassAttendee{newAttendee(1, models.AttendeeMain, 0)}

	for _, id := range []int{1, 2, 3} {
		roster = toggleIn(roster, 1, id)
	}
	assert.Equal(t, PriceWeekly, PriceStrategyFor(roster[0].Products))
	assertTotals(t, CalculateTotal(roster, models.Discount{}), 150, 180, 0)

	roster = toggleIn(roster, 1, 4)
	require.True(t, pass(roster, 1, 5).Selected)
	assert.Equal(t, PriceMonthly, PriceStrategyFor(roster[0].Products))
	assertTotals(t, CalculateTotal(roster, models.Discount{}), 180, 240, 0)
}

func TestCalculateTotal_MembershipCoversParty(t *testing.T) {
	main := models.PassAttendee{ID: 1, Category: models.AttendeeMain}
	main.Products = []models.Pass{patreonPass(10, main)}
	spouse := models.PassAttendee{ID: 2, Category: models.AttendeeSpouse}
	week := weekPass(20, spouse)
	week.OriginalPrice = nullDec(60)
	week.Selected = true
	spouse.Products = []models.Pass{week}
	roster := []models.PassAttendee{main, spouse}

	roster = toggleIn(roster, 1, 10)

	assert.Equal(t, PricePatreon, PriceStrategyFor(roster[0].Products))
	assert.Equal(t, PriceWeekly, PriceStrategyFor(roster[1].Products))
	assertTotals(t, AttendeeTotal(roster[0].Products, models.Discount{}), 500, 500, 0)
	assertTotals(t, AttendeeTotal(roster[1].Products, models.Discount{}), 0, 60, 60)

	got := CalculateTotal(roster, models.Discount{})
	assertDecimal(t, 500, got.Total, "total")
	assertDecimal(t, 60, got.DiscountAmount, "discountAmount")
	assertDecimal(t, 500, Payable(roster, models.Discount{}), "payable")
}

func TestCalculateTotal_MembershipCoversOwnPasses(t *testing.T) {
	roster := familyRoster()
	roster = toggleIn(roster, 1, 101)
	roster = toggleIn(roster, 1, 900)

	got := AttendeeTotal(roster[0].Products, models.Discount{})

	assertDecimal(t, 500, got.Total, "total")
	assertDecimal(t, 50, got.DiscountAmount, "discountAmount")
	assertDecimal(t, 560, got.OriginalTotal, "originalTotal")
}

func TestCalculateTotal_PurchasedWeekNetsOut(t *testing.T) {
	a := models.PassAttendee{ID: 1, Category: models.AttendeeMain}
	bought := weekPass(1, a)
	bought.Purchased = true
	bought.Selected = true
	fresh := weekPass(2, a)
	fresh.Selected = true
	a.Products = []models.Pass{bought, fresh}

	got := AttendeeTotal(a.Products, models.Discount{})

	assertDecimal(t, 0, got.Total, "total")
	assertDecimal(t, 120, got.OriginalTotal, "originalTotal")
}

func TestCalculateTotal_MonthCreditsPurchasedWeeks(t *testing.T) {
	roster := []models.PassAttendee{newAttendee(1, models.AttendeeMain, 0)}
	roster[0].Products[0].Purchased = true
	roster[0].Products[1].Purchased = true

	for _, id := range []int{1, 2, 3, 4} {
		roster = toggleIn(roster, 1, id)
	}

	require.True(t, pass(roster, 1, 5).Selected)
	assert.Equal(t, PriceMonthly, PriceStrategyFor(roster[0].Products))
	assertTotals(t, CalculateTotal(roster, models.Discount{}), 80, 240, 0)
}

func TestCalculateTotal_MonthlyPurchased(t *testing.T) {
	a := newAttendee(1, models.AttendeeMain, 0)
	for i := range a.Products {
		a.Products[i].Purchased = true
	}
	coupon := models.Discount{Code: "EARLY", Value: dec(10)}
	roster := []models.PassAttendee{a}

	assert.Equal(t, PriceMonthlyPurchased, PriceStrategyFor(roster[0].Products))
	assertTotals(t, CalculateTotal(roster, coupon), 0, 0, 0)

	roster = toggleIn(roster, 1, 2)

	require.False(t, pass(roster, 1, 5).Selected, "a purchased month is never re-selected")
	assert.Equal(t, PriceMonthlyPurchased, PriceStrategyFor(roster[0].Products))
	assertTotals(t, CalculateTotal(roster, coupon), -30, 60, 0)
}

func TestCalculateTotal_CouponPercentage(t *testing.T) {
	roster := []models.PassAttendee{newAttendee(1, models.AttendeeMain, 0)}
	for _, id := range []int{1, 2, 3} {
		roster = toggleIn(roster, 1, id)
	}
	coupon := models.Discount{Code: "EARLY", Value: dec(10)}

	got := CalculateTotal(roster, coupon)

	assertTotals(t, got, 150, 180, 18)
	assertDecimal(t, 132, Payable(roster, coupon), "payable")

	roster = toggleIn(roster, 1, 4)
	assertTotals(t, CalculateTotal(roster, coupon), 180, 240, 24)
}

func TestCalculateTotal_MissingPricesCountAsZero(t *testing.T) {
	a := models.PassAttendee{ID: 1, Category: models.AttendeeMain}
	a.Products = []models.Pass{
		{ID: 1, Category: models.ProductCategoryWeek, Selected: true, AttendeeID: 1},
		{ID: 2, Category: models.ProductCategoryWeek, Selected: true, AttendeeID: 1, Price: dec(40)},
	}

	assertTotals(t, CalculateTotal([]models.PassAttendee{a}, models.Discount{Value: dec(50)}), 40, 0, 0)
}

func TestCalculateTotal_IsAdditive(t *testing.T) {
	roster := familyRoster()
	roster = toggleIn(roster, 1, 101)
	roster = toggleIn(roster, 1, 102)
	for _, id := range []int{201, 202, 203, 204} {
		roster = toggleIn(roster, 2, id)
	}
	coupon := models.Discount{Value: dec(20)}

	whole := CalculateTotal(roster, coupon)
	sum := zeroTotals()
	for _, a := range roster {
		sum = sum.Add(CalculateTotal([]models.PassAttendee{a}, coupon))
	}

	assert.True(t, whole.Total.Equal(sum.Total))
	assert.True(t, whole.OriginalTotal.Equal(sum.OriginalTotal))
	assert.True(t, whole.DiscountAmount.Equal(sum.DiscountAmount))
	assertTotals(t, whole, 280, 360, 72)
}

func TestCalculateTotal_EmptyRoster(t *testing.T) {
	assertTotals(t, CalculateTotal(nil, models.Discount{Value: dec(10)}), 0, 0, 0)
	assert.False(t, HoldsMembership(nil))
}

func TestPayable_PurchasedMembershipChargesNothingExtra(t *testing.T) {
	main := models.PassAttendee{ID: 1, Category: models.AttendeeMain}
	patron := patreonPass(10, main)
	patron.Purchased = true
	week := weekPass(11, main)
	week.Price = dec(0)
	week.MembershipCovered = true
	week.Selected = true
	main.Products = []models.Pass{patron, week}
	roster := []models.PassAttendee{main}

	require.True(t, HoldsMembership(roster))
	assertDecimal(t, 50, CalculateTotal(roster, models.Discount{}).DiscountAmount, "discountAmount")
	assertDecimal(t, 0, Payable(roster, models.Discount{}), "payable")
}

func TestCalculateTotal_DirectMonthMatchesWeeks(t *testing.T) {
	coupon := models.Discount{Code: "EARLY", Value: dec(10)}

	direct := toggleIn([]models.PassAttendee{newAttendee(1, models.AttendeeMain, 0)}, 1, 5)
	built := []models.PassAttendee{newAttendee(1, models.AttendeeMain, 0)}
	for _, id := range []int{1, 2, 3, 4} {
		built = toggleIn(built, 1, id)
	}

	assert.Equal(t, snapshot(built), snapshot(direct))
	assertTotals(t, CalculateTotal(direct, coupon), 180, 240, 24)
	assertDecimal(t, 156, Payable(direct, coupon), "payable")
	assertDecimal(t, 156, Payable(built, coupon), "payable")
}

func TestPayable_CreditDoesNotCoverOtherAttendees(t *testing.T) {
	main := newAttendee(1, models.AttendeeMain, 100)
	main.Products[4].Purchased = true
	spouse := newAttendee(2, models.AttendeeSpouse, 200)
	roster := []models.PassAttendee{main, spouse}

	roster = toggleIn(roster, 1, 101)
	for _, id := range []int{201, 202, 203, 204} {
		roster = toggleIn(roster, 2, id)
	}

	require.Equal(t, PriceMonthlyPurchased, PriceStrategyFor(roster[0].Products))
	assertDecimal(t, -180, AttendeeTotal(roster[0].Products, models.Discount{}).Total, "main total")
	assertDecimal(t, 180, AttendeeTotal(roster[1].Products, models.Discount{}).Total, "spouse total")
	assertDecimal(t, 0, CalculateTotal(roster, models.Discount{}).Total, "total")
	assertDecimal(t, 180, Payable(roster, models.Discount{}), "payable")
}
