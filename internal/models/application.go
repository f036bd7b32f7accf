package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ApplicationStatus tracks the review lifecycle of an application.
type ApplicationStatus string

const (
	ApplicationDraft    ApplicationStatus = "draft"
	ApplicationInReview ApplicationStatus = "in review"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
	ApplicationWithdraw ApplicationStatus = "withdrawn"
)

// TicketCategory is assigned by reviewers and drives base pass pricing.
type TicketCategory string

const (
	TicketStandard    TicketCategory = "Standard"
	TicketScholarship TicketCategory = "Scholarship"
	TicketBuilder     TicketCategory = "Builder"
)

// Application is a citizen's application to a popup city.
type Application struct {
	ID          int               `db:"id" json:"id"`
	CitizenID   int               `db:"citizen_id" json:"citizenId"`
	PopupCityID int               `db:"popup_city_id" json:"popupCityId"`
	Status      ApplicationStatus `db:"status" json:"status"`

	// Personal information
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	Telegram  string `db:"telegram" json:"telegram"`
	Gender    string `db:"gender" json:"gender"`
	Age       string `db:"age" json:"age"`

	// Professional details
	Organization string `db:"organization" json:"organization"`
	Role         string `db:"role" json:"role"`
	SocialMedia  string `db:"social_media" json:"socialMedia"`

	// Participation
	Duration           string `db:"duration" json:"duration"`
	BuilderBoolean     bool   `db:"builder_boolean" json:"builderBoolean"`
	BuilderDescription string `db:"builder_description" json:"builderDescription"`
	VideoURL           string `db:"video_url" json:"videoUrl"`

	// Children and plus ones
	BringsSpouse bool   `db:"brings_spouse" json:"bringsSpouse"`
	SpouseInfo   string `db:"spouse_info" json:"spouseInfo"`
	SpouseEmail  string `db:"spouse_email" json:"spouseEmail"`
	BringsKids   bool   `db:"brings_kids" json:"bringsKids"`
	KidsInfo     string `db:"kids_info" json:"kidsInfo"`

	// Scholarship
	ScholarshipRequest    bool           `db:"scholarship_request" json:"scholarshipRequest"`
	ScholarshipCategories pq.StringArray `db:"scholarship_categories" json:"scholarshipCategories"`
	ScholarshipDetails    string         `db:"scholarship_details" json:"scholarshipDetails"`
	ScholarshipVideoURL   string         `db:"scholarship_video_url" json:"scholarshipVideoUrl"`

	// Set by reviewers
	TicketCategory   TicketCategory      `db:"ticket_category" json:"ticketCategory"`
	DiscountAssigned decimal.NullDecimal `db:"discount_assigned" json:"discountAssigned"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	Attendees []Attendee `db:"-" json:"attendees,omitempty"`
}
