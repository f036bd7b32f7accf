package models

import "time"

// Attendee is a person travelling under an application.
type Attendee struct {
	ID            int              `db:"id" json:"id"`
	ApplicationID int              `db:"application_id" json:"applicationId"`
	Name          string           `db:"name" json:"name"`
	Email         string           `db:"email" json:"email"`
	Category      AttendeeCategory `db:"category" json:"category"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at" json:"-"`
}

// AttendeeProduct is a pass already paid for on behalf of an attendee.
type AttendeeProduct struct {
	AttendeeID int       `db:"attendee_id" json:"attendeeId"`
	ProductID  int       `db:"product_id" json:"productId"`
	PaymentID  int       `db:"payment_id" json:"paymentId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
