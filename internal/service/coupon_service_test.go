package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

func TestCouponService_Discount(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	maxUses := 3

	coupons := &MockCouponStore{}
	apps := &MockApplicationStore{}
	svc := NewCouponService(coupons, apps)
	svc.now = func() time.Time { return now }

	coupons.On("GetByCode", 3, "EARLY").Return(&models.CouponCode{Code: "EARLY", DiscountValue: money(15), IsActive: true}, nil)
	coupons.On("GetByCode", 3, "OLD").Return(&models.CouponCode{Code: "OLD", DiscountValue: money(15), IsActive: true, ExpiresAt: &past}, nil)
	coupons.On("GetByCode", 3, "USED").Return(&models.CouponCode{Code: "USED", DiscountValue: money(15), IsActive: true, MaxUses: &maxUses, CurrentUses: 3}, nil)
	coupons.On("GetByCode", 3, "OFF").Return(&models.CouponCode{Code: "OFF", DiscountValue: money(15)}, nil)
	coupons.On("GetByCode", 3, "NOPE").Return(nil, sql.ErrNoRows)

	d, err := svc.Discount(7, 3, " EARLY ")
	require.NoError(t, err)
	assert.Equal(t, "EARLY", d.Code)
	assert.True(t, money(15).Equal(d.Value))

	for _, code := range []string{"OLD", "USED", "OFF", "NOPE"} {
		_, err := svc.Discount(7, 3, code)
		assert.ErrorIs(t, err, utils.ErrInvalidCoupon, code)
	}
}

func TestCouponService_Discount_Award(t *testing.T) {
	coupons := &MockCouponStore{}
	apps := &MockApplicationStore{}
	svc := NewCouponService(coupons, apps)

	awardedApp := acceptedApplication(models.TicketStandard)
	awardedApp.DiscountAssigned = nullMoney(30)
	apps.On("GetByCitizenAndPopup", 7, 3).Return(awardedApp, nil)
	apps.On("GetByCitizenAndPopup", 7, 4).Return(acceptedApplication(models.TicketStandard), nil)
	apps.On("GetByCitizenAndPopup", 7, 5).Return(nil, sql.ErrNoRows)

	d, err := svc.Discount(7, 3, "")
	require.NoError(t, err)
	assert.Empty(t, d.Code)
	assert.True(t, money(30).Equal(d.Value))

	d, err = svc.Discount(7, 4, "")
	require.NoError(t, err)
	assert.True(t, d.Value.IsZero())

	d, err = svc.Discount(7, 5, "")
	require.NoError(t, err)
	assert.True(t, d.Value.IsZero())
	coupons.AssertNumberOfCalls(t, "GetByCode", 0)
}
