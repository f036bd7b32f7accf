package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a pass definition in a popup's catalog.
type Product struct {
	ID               int                 `db:"id" json:"id"`
	PopupCityID      int                 `db:"popup_city_id" json:"popupCityId"`
	Name             string              `db:"name" json:"name"`
	Slug             string              `db:"slug" json:"slug"`
	Description      string              `db:"description" json:"description"`
	Price            decimal.Decimal     `db:"price" json:"price"`
	ComparePrice     decimal.NullDecimal `db:"compare_price" json:"comparePrice"`
	BuilderPrice     decimal.NullDecimal `db:"builder_price" json:"builderPrice"`
	Category         ProductCategory     `db:"category" json:"category"`
	AttendeeCategory AttendeeCategory    `db:"attendee_category" json:"attendeeCategory"`
	Exclusive        bool                `db:"exclusive" json:"exclusive"`
	IsActive         bool                `db:"is_active" json:"isActive"`
	StartDate        *time.Time          `db:"start_date" json:"startDate,omitempty"`
	EndDate          *time.Time          `db:"end_date" json:"endDate,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"-"`
	UpdatedAt        time.Time           `db:"updated_at" json:"-"`
}
