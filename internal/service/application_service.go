package service

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

// ApplicationService handles application drafts, import and submission.
type ApplicationService struct {
	apps      ApplicationStore
	attendees AttendeeStore
	citizens  CitizenStore
	popups    PopupStore
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(apps ApplicationStore, attendees AttendeeStore, citizens CitizenStore, popups PopupStore) *ApplicationService {
	return &ApplicationService{apps: apps, attendees: attendees, citizens: citizens, popups: popups}
}

// ApplicationRequest carries the citizen-editable application fields.
type ApplicationRequest struct {
	PopupCityID int `json:"popupCityId" binding:"required"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Telegram  string `json:"telegram"`
	Gender    string `json:"gender"`
	Age       string `json:"age"`

	Organization string `json:"organization"`
	Role         string `json:"role"`
	SocialMedia  string `json:"socialMedia"`

	Duration           string `json:"duration"`
	BuilderBoolean     bool   `json:"builderBoolean"`
	BuilderDescription string `json:"builderDescription"`
	VideoURL           string `json:"videoUrl"`

	BringsSpouse bool   `json:"bringsSpouse"`
	SpouseInfo   string `json:"spouseInfo"`
	SpouseEmail  string `json:"spouseEmail"`
	BringsKids   bool   `json:"bringsKids"`
	KidsInfo     string `json:"kidsInfo"`

	ScholarshipRequest    bool     `json:"scholarshipRequest"`
	ScholarshipCategories []string `json:"scholarshipCategories"`
	ScholarshipDetails    string   `json:"scholarshipDetails"`
	ScholarshipVideoURL   string   `json:"scholarshipVideoUrl"`
}

func (r *ApplicationRequest) apply(a *models.Application) {
	a.FirstName = strings.TrimSpace(r.FirstName)
	a.LastName = strings.TrimSpace(r.LastName)
	a.Email = strings.TrimSpace(r.Email)
	a.Telegram = strings.TrimSpace(r.Telegram)
	a.Gender = r.Gender
	a.Age = r.Age
	a.Organization = strings.TrimSpace(r.Organization)
	a.Role = strings.TrimSpace(r.Role)
	a.SocialMedia = strings.TrimSpace(r.SocialMedia)
	a.Duration = r.Duration
	a.BuilderBoolean = r.BuilderBoolean
	a.BuilderDescription = strings.TrimSpace(r.BuilderDescription)
	a.VideoURL = strings.TrimSpace(r.VideoURL)
	a.BringsSpouse = r.BringsSpouse
	a.SpouseInfo = strings.TrimSpace(r.SpouseInfo)
	a.SpouseEmail = strings.TrimSpace(r.SpouseEmail)
	a.BringsKids = r.BringsKids
	a.KidsInfo = strings.TrimSpace(r.KidsInfo)
	a.ScholarshipRequest = r.ScholarshipRequest
	a.ScholarshipCategories = pq.StringArray(r.ScholarshipCategories)
	if a.ScholarshipCategories == nil {
		a.ScholarshipCategories = pq.StringArray{}
	}
	a.ScholarshipDetails = strings.TrimSpace(r.ScholarshipDetails)
	a.ScholarshipVideoURL = strings.TrimSpace(r.ScholarshipVideoURL)
}

// List returns the citizen's applications.
func (s *ApplicationService) List(citizenID int) ([]models.Application, error) {
	return s.apps.ListByCitizen(citizenID)
}

// Get returns an application owned by the citizen with its attendees.
func (s *ApplicationService) Get(citizenID, id int) (*models.Application, error) {
	app, err := s.owned(citizenID, id)
	if err != nil {
		return nil, err
	}
	if app.Attendees, err = s.attendees.ListByApplication(app.ID); err != nil {
		return nil, err
	}
	return app, nil
}

// owned loads an application and hides it from anyone but its citizen.
func (s *ApplicationService) owned(citizenID, id int) (*models.Application, error) {
	app, err := s.apps.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrApplicationNotFound
		}
		return nil, err
	}
	if app.CitizenID != citizenID {
		return nil, utils.ErrApplicationNotFound
	}
	return app, nil
}

// ImportStatus tells the client where a prefilled application came from.
type ImportStatus string

const (
	ImportDraft  ImportStatus = "draft"
	ImportImport ImportStatus = "import"
)

// ImportResult is the prefill for the application form of a popup.
type ImportResult struct {
	Application *models.Application `json:"application"`
	Status      *ImportStatus       `json:"status"`
}

// Import returns the citizen's existing application for popupID, or a copy of
// their latest accepted application elsewhere to prefill the form.
func (s *ApplicationService) Import(citizenID, popupID int) (*ImportResult, error) {
	existing, err := s.apps.GetByCitizenAndPopup(citizenID, popupID)
	if err == nil {
		status := ImportDraft
		return &ImportResult{Application: existing, Status: &status}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	prev, err := s.apps.GetLatestAccepted(citizenID, popupID)
	if errors.Is(err, sql.ErrNoRows) {
		return &ImportResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	imported := *prev
	imported.ID = 0
	imported.PopupCityID = popupID
	imported.Status = models.ApplicationDraft
	imported.TicketCategory = ""
	imported.DiscountAssigned.Valid = false
	imported.SubmittedAt = nil
	imported.Attendees = nil
	status := ImportImport
	return &ImportResult{Application: &imported, Status: &status}, nil
}

// Save creates the citizen's draft for a popup or updates it. Submitted
// applications can no longer be edited.
func (s *ApplicationService) Save(citizenID int, req *ApplicationRequest) (*models.Application, error) {
	if _, err := s.popups.GetByID(req.PopupCityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrPopupNotFound
		}
		return nil, err
	}

	app, err := s.apps.GetByCitizenAndPopup(citizenID, req.PopupCityID)
	switch {
	case err == nil:
		if app.Status != models.ApplicationDraft {
			return nil, utils.ErrApplicationSubmitted
		}
		req.apply(app)
		if err := s.apps.Update(app); err != nil {
			return nil, fmt.Errorf("update application: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		app, err = s.create(citizenID, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if app.FirstName != "" || app.LastName != "" {
		if err := s.citizens.UpdateName(citizenID, app.FirstName, app.LastName); err != nil {
			log.Warn().Err(err).Int("citizen_id", citizenID).Msg("Failed to update citizen name")
		}
	}
	return app, nil
}

func (s *ApplicationService) create(citizenID int, req *ApplicationRequest) (*models.Application, error) {
	app := &models.Application{
		CitizenID:   citizenID,
		PopupCityID: req.PopupCityID,
		Status:      models.ApplicationDraft,
	}
	req.apply(app)

	email := app.Email
	if email == "" {
		citizen, err := s.citizens.GetByID(citizenID)
		if err != nil {
			return nil, err
		}
		email = citizen.Email
	}
	main := &models.Attendee{
		Name:     strings.TrimSpace(app.FirstName + " " + app.LastName),
		Email:    email,
		Category: models.AttendeeMain,
	}

	if err := s.apps.CreateWithMainAttendee(app, main); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	app.Attendees = []models.Attendee{*main}

	log.Info().Int("application_id", app.ID).Int("popup_city_id", app.PopupCityID).Msg("Application draft created")
	return app, nil
}

// Submit validates a draft and sends it to review.
func (s *ApplicationService) Submit(citizenID, id int) (*models.Application, error) {
	app, err := s.owned(citizenID, id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationDraft {
		return nil, utils.ErrApplicationSubmitted
	}
	if missing := MissingFields(app); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrMissingFields, strings.Join(missing, ", "))
	}

	if err := s.apps.Submit(app.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrApplicationSubmitted
		}
		return nil, err
	}
	app.Status = models.ApplicationInReview

	log.Info().Int("application_id", app.ID).Msg("Application submitted")
	return app, nil
}

// MissingFields lists the required fields a are still empty. Personal
// information is always required. A valid video replaces the professional
// and participation sections.
func MissingFields(a *models.Application) []string {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require("first_name", a.FirstName)
	require("last_name", a.LastName)
	require("telegram", a.Telegram)
	require("gender", a.Gender)
	require("age", a.Age)

	if !ValidVideoURL(a.VideoURL) {
		require("organization", a.Organization)
		require("social_media", a.SocialMedia)
		require("duration", a.Duration)
		if a.BuilderBoolean {
			require("builder_description", a.BuilderDescription)
		}
	}

	if a.BringsSpouse {
		require("spouse_info", a.SpouseInfo)
		require("spouse_email", a.SpouseEmail)
	}
	if a.BringsKids {
		require("kids_info", a.KidsInfo)
	}

	if a.ScholarshipRequest {
		if !ValidVideoURL(a.ScholarshipVideoURL) {
			missing = append(missing, "scholarship_video_url")
		}
	}
	return missing
}

// ValidVideoURL reports whether raw is an absolute http(s) URL.
func ValidVideoURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
