package service

import (
	"context"
	"time"

	"github.com/popupcity/portal_api/internal/cache"
	"github.com/popupcity/portal_api/internal/models"
)

// The interfaces below are the persistence the services depend on. The
// repository and cache packages provide the production implementations.

type CitizenStore interface {
	GetByID(id int) (*models.Citizen, error)
	Upsert(email string) (*models.Citizen, error)
	UpdateName(id int, firstName, lastName string) error
}

type PopupStore interface {
	List() ([]models.Popup, error)
	GetByID(id int) (*models.Popup, error)
	GetBySlug(slug string) (*models.Popup, error)
}

type ApplicationStore interface {
	ListByCitizen(citizenID int) ([]models.Application, error)
	GetByID(id int) (*models.Application, error)
	GetByCitizenAndPopup(citizenID, popupID int) (*models.Application, error)
	GetLatestAccepted(citizenID, excludePopupID int) (*models.Application, error)
	CreateWithMainAttendee(a *models.Application, main *models.Attendee) error
	Update(a *models.Application) error
	Submit(id int) error
}

type AttendeeStore interface {
	ListByApplication(applicationID int) ([]models.Attendee, error)
	GetByID(id int) (*models.Attendee, error)
	Create(a *models.Attendee) error
	Update(a *models.Attendee) error
	Delete(id int) error
	ListProducts(applicationID int) ([]models.AttendeeProduct, error)
	CountProducts(attendeeID int) (int, error)
}

type ProductStore interface {
	ListActiveByPopup(popupID int) ([]models.Product, error)
	GetByIDs(ids []int) ([]models.Product, error)
}

type CouponStore interface {
	GetByCode(popupID int, code string) (*models.CouponCode, error)
}

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByExternalID(externalID string) (*models.Payment, error)
	ListByApplication(applicationID int) ([]models.Payment, error)
	Transition(p *models.Payment, status models.PaymentStatus) (bool, error)
	ListPendingBefore(cutoff time.Time, limit int) ([]models.Payment, error)
}

type LoginCodeStore interface {
	Set(ctx context.Context, data *cache.LoginCode) error
	GetByEmail(ctx context.Context, email string) (*cache.LoginCode, error)
	GetByToken(ctx context.Context, token string) (*cache.LoginCode, error)
	RecordAttempt(ctx context.Context, email string) (int64, error)
	Delete(ctx context.Context, data *cache.LoginCode) error
	TTL() time.Duration
}

type CatalogStore interface {
	Get(ctx context.Context, popupID int) ([]models.Product, error)
	Set(ctx context.Context, popupID int, products []models.Product) error
}
