package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

// CouponService resolves discount descriptors.
type CouponService struct {
	coupons CouponStore
	apps    ApplicationStore
	now     func() time.Time
}

// NewCouponService constructs a CouponService.
func NewCouponService(coupons CouponStore, apps ApplicationStore) *CouponService {
	return &CouponService{coupons: coupons, apps: apps, now: time.Now}
}

// Discount returns the discount for a citizen at a popup. A code must be
// redeemable; without one the application's awarded discount applies.
func (s *CouponService) Discount(citizenID, popupID int, code string) (models.Discount, error) {
	code = strings.TrimSpace(code)
	if code != "" {
		return s.Redeem(popupID, code)
	}

	app, err := s.apps.GetByCitizenAndPopup(citizenID, popupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Discount{}, nil
	}
	if err != nil {
		return models.Discount{}, err
	}
	return awarded(app), nil
}

// Redeem validates a coupon code for popupID.
func (s *CouponService) Redeem(popupID int, code string) (models.Discount, error) {
	c, err := s.coupons.GetByCode(popupID, strings.TrimSpace(code))
	if err != nil {
		return models.Discount{}, notFound(err, utils.ErrInvalidCoupon)
	}
	if !c.Usable(s.now()) {
		return models.Discount{}, utils.ErrInvalidCoupon
	}
	return models.Discount{Code: c.Code, Value: c.DiscountValue}, nil
}

func awarded(app *models.Application) models.Discount {
	if !app.DiscountAssigned.Valid {
		return models.Discount{}
	}
	return models.Discount{Value: app.DiscountAssigned.Decimal}
}
