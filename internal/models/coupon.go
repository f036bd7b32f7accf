package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponCode is a percentage discount code scoped to a popup.
type CouponCode struct {
	ID            int             `db:"id" json:"id"`
	PopupCityID   int             `db:"popup_city_id" json:"popupCityId"`
	Code          string          `db:"code" json:"code"`
	DiscountValue decimal.Decimal `db:"discount_value" json:"discountValue"`
	MaxUses       *int            `db:"max_uses" json:"maxUses,omitempty"`
	CurrentUses   int             `db:"current_uses" json:"currentUses"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	ExpiresAt     *time.Time      `db:"expires_at" json:"expiresAt,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"-"`
}

// Usable reports whether the coupon can still be redeemed at now.
func (c *CouponCode) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}
