package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentExpired  PaymentStatus = "expired"
)

// IsFinal reports whether no further transitions are allowed.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentApproved || s == PaymentRejected || s == PaymentExpired
}

// Payment is a purchase of one or more passes for an application.
type Payment struct {
	ID            int                 `db:"id" json:"id"`
	ExternalID    string              `db:"external_id" json:"externalId"`
	ApplicationID int                 `db:"application_id" json:"applicationId"`
	Status        PaymentStatus       `db:"status" json:"status"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	Currency      string              `db:"currency" json:"currency"`
	CouponCode    *string             `db:"coupon_code" json:"couponCode,omitempty"`
	DiscountValue decimal.NullDecimal `db:"discount_value" json:"discountValue"`
	CheckoutURL   *string             `db:"checkout_url" json:"checkoutUrl,omitempty"`
	CreatedAt     time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updatedAt"`

	Products []PaymentProduct `db:"-" json:"products,omitempty"`
}

// PaymentProduct is one pass line of a payment.
type PaymentProduct struct {
	PaymentID  int             `db:"payment_id" json:"-"`
	ProductID  int             `db:"product_id" json:"productId"`
	AttendeeID int             `db:"attendee_id" json:"attendeeId"`
	Name       string          `db:"name" json:"name"`
	Category   ProductCategory `db:"category" json:"category"`
	Price      decimal.Decimal `db:"price" json:"price"`
}
