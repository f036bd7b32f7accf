package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

// AttendeeService manages the spouse and kids travelling under an
// application. The main attendee is created with the application and is
// never edited through here.
type AttendeeService struct {
	apps      *ApplicationService
	attendees AttendeeStore
}

// NewAttendeeService constructs an AttendeeService.
func NewAttendeeService(apps *ApplicationService, attendees AttendeeStore) *AttendeeService {
	return &AttendeeService{apps: apps, attendees: attendees}
}

// AttendeeRequest carries attendee fields.
type AttendeeRequest struct {
	Name     string                  `json:"name" binding:"required"`
	Email    string                  `json:"email"`
	Category models.AttendeeCategory `json:"category" binding:"required"`
}

func (r *AttendeeRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || !r.Category.Valid() || r.Category == models.AttendeeMain {
		return utils.ErrInvalidAttendee
	}
	return nil
}

// Create adds an attendee to the citizen's application.
func (s *AttendeeService) Create(citizenID, applicationID int, req *AttendeeRequest) (*models.Attendee, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := s.apps.owned(citizenID, applicationID); err != nil {
		return nil, err
	}

	a := &models.Attendee{
		ApplicationID: applicationID,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Category:      req.Category,
	}
	if err := s.attendees.Create(a); err != nil {
		return nil, fmt.Errorf("create attendee: %w", err)
	}

	log.Info().Int("application_id", applicationID).Int("attendee_id", a.ID).Str("category", string(a.Category)).Msg("Attendee added")
	return a, nil
}

// Update edits an attendee of the citizen's application.
func (s *AttendeeService) Update(citizenID, applicationID, attendeeID int, req *AttendeeRequest) (*models.Attendee, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	a, err := s.load(citizenID, applicationID, attendeeID)
	if err != nil {
		return nil, err
	}
	if a.Category == models.AttendeeMain {
		return nil, utils.ErrMainAttendeeImmutable
	}

	a.Name = strings.TrimSpace(req.Name)
	a.Email = strings.TrimSpace(req.Email)
	a.Category = req.Category
	if err := s.attendees.Update(a); err != nil {
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	return a, nil
}

// Delete removes an attendee that holds no purchased passes.
func (s *AttendeeService) Delete(citizenID, applicationID, attendeeID int) error {
	a, err := s.load(citizenID, applicationID, attendeeID)
	if err != nil {
		return err
	}
	if a.Category == models.AttendeeMain {
		return utils.ErrMainAttendeeImmutable
	}

	n, err := s.attendees.CountProducts(a.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return utils.ErrAttendeeHasProducts
	}

	if err := s.attendees.Delete(a.ID); err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	log.Info().Int("application_id", applicationID).Int("attendee_id", a.ID).Msg("Attendee removed")
	return nil
}

func (s *AttendeeService) load(citizenID, applicationID, attendeeID int) (*models.Attendee, error) {
	if _, err := s.apps.owned(citizenID, applicationID); err != nil {
		return nil, err
	}
	a, err := s.attendees.GetByID(attendeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAttendeeNotFound
		}
		return nil, err
	}
	if a.ApplicationID != applicationID {
		return nil, utils.ErrAttendeeNotFound
	}
	return a, nil
}
