package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/popupcity/portal_api/internal/metrics"
	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/pricing"
	"github.com/popupcity/portal_api/internal/utils"
)

// PassService builds pass rosters for accepted applications and runs the
// pricing engine over them.
type PassService struct {
	apps      *ApplicationService
	attendees AttendeeStore
	catalog   *CatalogService
}

// NewPassService constructs a PassService.
func NewPassService(apps *ApplicationService, attendees AttendeeStore, catalog *CatalogService) *PassService {
	return &PassService{apps: apps, attendees: attendees, catalog: catalog}
}

// ToggleRequest is a selection change on a client-held roster.
type ToggleRequest struct {
	Roster     []models.PassAttendee `json:"roster"`
	AttendeeID int                   `json:"attendeeId" binding:"required"`
	ProductID  int                   `json:"productId" binding:"required"`
	Discount   models.Discount       `json:"discount"`
}

// TotalRequest prices a client-held roster.
type TotalRequest struct {
	Roster   []models.PassAttendee `json:"roster"`
	Discount models.Discount       `json:"discount"`
}

// RosterResult is a roster together with its totals.
type RosterResult struct {
	Roster  []models.PassAttendee `json:"roster"`
	Totals  pricing.Totals        `json:"totals"`
	Payable decimal.Decimal       `json:"payable"`
}

// Roster is the pass roster of an application together with the
// application it was built for.
type Roster struct {
	Application *models.Application
	Attendees   []models.PassAttendee
}

// BuildRoster replicates the popup catalog onto every attendee of an
// accepted application and marks what was already bought.
func (s *PassService) BuildRoster(ctx context.Context, citizenID, applicationID int) (*Roster, error) {
	app, err := s.apps.owned(citizenID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationAccepted {
		return nil, utils.ErrApplicationNotAccepted
	}

	attendees, err := s.attendees.ListByApplication(app.ID)
	if err != nil {
		return nil, err
	}
	owned, err := s.attendees.ListProducts(app.ID)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.Products(ctx, app.PopupCityID)
	if err != nil {
		return nil, err
	}

	return &Roster{Application: app, Attendees: buildRoster(app, attendees, products, owned)}, nil
}

type ownership struct{ attendeeID, productID int }

func buildRoster(app *models.Application, attendees []models.Attendee, products []models.Product, owned []models.AttendeeProduct) []models.PassAttendee {
	purchased := make(map[ownership]bool, len(owned))
	for _, o := range owned {
		purchased[ownership{o.AttendeeID, o.ProductID}] = true
	}
	categories := make(map[int]models.ProductCategory, len(products))
	for _, p := range products {
		categories[p.ID] = p.Category
	}

	membershipHeld := false
	for _, a := range attendees {
		if a.Category != models.AttendeeMain {
			continue
		}
		for _, o := range owned {
			if o.AttendeeID == a.ID && categories[o.ProductID].IsMembership() {
				membershipHeld = true
			}
		}
	}

	roster := make([]models.PassAttendee, 0, len(attendees))
	for _, a := range attendees {
		pa := models.PassAttendee{
			ID:       a.ID,
			Name:     a.Name,
			Email:    a.Email,
			Category: a.Category,
			Products: []models.Pass{},
		}
		for _, p := range products {
			if !offered(p, a) {
				continue
			}
			bought := purchased[ownership{a.ID, p.ID}]
			price := basePrice(app.TicketCategory, p)
			covered := false
			if membershipHeld && !bought {
				price, covered = decimal.Zero, true
			}
			pa.Products = append(pa.Products, models.Pass{
				ID:                p.ID,
				Name:              p.Name,
				Slug:              p.Slug,
				Category:          p.Category,
				Price:             price,
				OriginalPrice:     decimal.NewNullDecimal(price),
				ComparePrice:      p.ComparePrice,
				Exclusive:         p.Exclusive,
				Purchased:         bought,
				MembershipCovered: covered,
				AttendeeID:        a.ID,
				AttendeeCategory:  p.AttendeeCategory,
			})
		}
		roster = append(roster, pa)
	}
	return roster
}

// offered reports whether p is sold to attendee a. Memberships are sold to
// the main attendee only.
func offered(p models.Product, a models.Attendee) bool {
	if p.AttendeeCategory != a.Category {
		return false
	}
	return !p.Category.IsMembership() || a.Category == models.AttendeeMain
}

func basePrice(ticket models.TicketCategory, p models.Product) decimal.Decimal {
	switch {
	case ticket == models.TicketScholarship:
		return decimal.Zero
	case ticket == models.TicketBuilder && p.BuilderPrice.Valid:
		return p.BuilderPrice.Decimal
	default:
		return p.Price
	}
}

// Toggle applies one selection change and prices the result.
func (s *PassService) Toggle(req *ToggleRequest) *RosterResult {
	target := models.Pass{ID: req.ProductID}
	for _, a := range req.Roster {
		if a.ID != req.AttendeeID {
			continue
		}
		for _, p := range a.Products {
			if p.ID == req.ProductID {
				target = p
			}
		}
	}
	metrics.PassToggles.WithLabelValues(string(pricing.StrategyFor(target))).Inc()

	next := pricing.Resolve(req.Roster, req.AttendeeID, target)
	return s.Total(&TotalRequest{Roster: next, Discount: req.Discount})
}

// Total prices a roster without changing it.
func (s *PassService) Total(req *TotalRequest) *RosterResult {
	for _, a := range req.Roster {
		metrics.TotalsComputed.WithLabelValues(string(pricing.PriceStrategyFor(a.Products))).Inc()
	}
	roster := req.Roster
	if roster == nil {
		roster = []models.PassAttendee{}
	}
	return &RosterResult{
		Roster:  roster,
		Totals:  pricing.CalculateTotal(roster, req.Discount),
		Payable: pricing.Payable(roster, req.Discount),
	}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
