package models

import "github.com/shopspring/decimal"

// ProductCategory enumerates the pass categories sold per popup.
type ProductCategory string

const (
	ProductCategoryWeek      ProductCategory = "week"
	ProductCategoryMonth     ProductCategory = "month"
	ProductCategoryPatreon   ProductCategory = "patreon"
	ProductCategorySupporter ProductCategory = "supporter"
)

// IsMembership reports whether the category is a party-wide membership tier.
func (c ProductCategory) IsMembership() bool {
	return c == ProductCategoryPatreon || c == ProductCategorySupporter
}

// AttendeeCategory is the role of an attendee inside a purchasing party.
type AttendeeCategory string

const (
	AttendeeMain   AttendeeCategory = "main"
	AttendeeSpouse AttendeeCategory = "spouse"
	AttendeeKid    AttendeeCategory = "kid"
	AttendeeBaby   AttendeeCategory = "baby"
	AttendeeTeen   AttendeeCategory = "teen"
)

// Valid reports whether c is a known attendee category.
func (c AttendeeCategory) Valid() bool {
	switch c {
	case AttendeeMain, AttendeeSpouse, AttendeeKid, AttendeeBaby, AttendeeTeen:
		return true
	}
	return false
}

// Pass is a catalog product replicated onto one attendee together with its
// selection state. Price is the effective price and changes as selections
// are resolved; OriginalPrice and ComparePrice are reference prices.
type Pass struct {
	ID                int                 `json:"id"`
	Name              string              `json:"name"`
	Slug              string              `json:"slug,omitempty"`
	Category          ProductCategory     `json:"category"`
	Price             decimal.Decimal     `json:"price"`
	OriginalPrice     decimal.NullDecimal `json:"originalPrice"`
	ComparePrice      decimal.NullDecimal `json:"comparePrice"`
	Exclusive         bool                `json:"exclusive"`
	Selected          bool                `json:"selected"`
	Purchased         bool                `json:"purchased"`
	// Disabled marks an exclusive displaced by another exclusive. It is
	// informational and only holds until the next exclusive toggle.
	Disabled          bool                `json:"disabled,omitempty"`
	MembershipCovered bool                `json:"membershipCovered,omitempty"`
	AttendeeID        int                 `json:"attendeeId"`
	AttendeeCategory  AttendeeCategory    `json:"attendeeCategory"`
}

// PassAttendee is one member of the roster with the passes offered to them.
type PassAttendee struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email,omitempty"`
	Category AttendeeCategory `json:"category"`
	Products []Pass           `json:"products"`
}

// Discount is a percentage discount coming from a coupon code or an award.
type Discount struct {
	Code  string          `json:"discountCode,omitempty"`
	Value decimal.Decimal `json:"discountValue"`
}
