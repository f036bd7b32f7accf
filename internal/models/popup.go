package models

import "time"

// Popup is a popup city (event) citizens can apply to.
type Popup struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Slug              string     `db:"slug" json:"slug"`
	Tagline           string     `db:"tagline" json:"tagline"`
	Location          string     `db:"location" json:"location"`
	StartDate         *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate           *time.Time `db:"end_date" json:"endDate,omitempty"`
	VisibleInPortal   bool       `db:"visible_in_portal" json:"visibleInPortal"`
	ClickableInPortal bool       `db:"clickable_in_portal" json:"clickableInPortal"`
	CreatedAt         time.Time  `db:"created_at" json:"-"`
}
