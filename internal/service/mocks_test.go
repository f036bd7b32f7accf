package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/popupcity/portal_api/internal/cache"
	"github.com/popupcity/portal_api/internal/models"
)

type MockCitizenStore struct{ mock.Mock }

func (m *MockCitizenStore) GetByID(id int) (*models.Citizen, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Citizen)
	return c, args.Error(1)
}

func (m *MockCitizenStore) Upsert(email string) (*models.Citizen, error) {
	args := m.Called(email)
	c, _ := args.Get(0).(*models.Citizen)
	return c, args.Error(1)
}

func (m *MockCitizenStore) UpdateName(id int, firstName, lastName string) error {
	return m.Called(id, firstName, lastName).Error(0)
}

type MockPopupStore struct{ mock.Mock }

func (m *MockPopupStore) List() ([]models.Popup, error) {
	args := m.Called()
	p, _ := args.Get(0).([]models.Popup)
	return p, args.Error(1)
}

func (m *MockPopupStore) GetByID(id int) (*models.Popup, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*models.Popup)
	return p, args.Error(1)
}

func (m *MockPopupStore) GetBySlug(slug string) (*models.Popup, error) {
	args := m.Called(slug)
	p, _ := args.Get(0).(*models.Popup)
	return p, args.Error(1)
}

type MockApplicationStore struct{ mock.Mock }

func (m *MockApplicationStore) ListByCitizen(citizenID int) ([]models.Application, error) {
	args := m.Called(citizenID)
	a, _ := args.Get(0).([]models.Application)
	return a, args.Error(1)
}

func (m *MockApplicationStore) GetByID(id int) (*models.Application, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *MockApplicationStore) GetByCitizenAndPopup(citizenID, popupID int) (*models.Application, error) {
	args := m.Called(citizenID, popupID)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *MockApplicationStore) GetLatestAccepted(citizenID, excludePopupID int) (*models.Application, error) {
	args := m.Called(citizenID, excludePopupID)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *MockApplicationStore) CreateWithMainAttendee(a *models.Application, main *models.Attendee) error {
	return m.Called(a, main).Error(0)
}

func (m *MockApplicationStore) Update(a *models.Application) error {
	return m.Called(a).Error(0)
}

func (m *MockApplicationStore) Submit(id int) error {
	return m.Called(id).Error(0)
}

type MockAttendeeStore struct{ mock.Mock }

func (m *MockAttendeeStore) ListByApplication(applicationID int) ([]models.Attendee, error) {
	args := m.Called(applicationID)
	a, _ := args.Get(0).([]models.Attendee)
	return a, args.Error(1)
}

func (m *MockAttendeeStore) GetByID(id int) (*models.Attendee, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*models.Attendee)
	return a, args.Error(1)
}

func (m *MockAttendeeStore) Create(a *models.Attendee) error {
	return m.Called(a).Error(0)
}

func (m *MockAttendeeStore) Update(a *models.Attendee) error {
	return m.Called(a).Error(0)
}

func (m *MockAttendeeStore) Delete(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockAttendeeStore) ListProducts(applicationID int) ([]models.AttendeeProduct, error) {
	args := m.Called(applicationID)
	p, _ := args.Get(0).([]models.AttendeeProduct)
	return p, args.Error(1)
}

func (m *MockAttendeeStore) CountProducts(attendeeID int) (int, error) {
	args := m.Called(attendeeID)
	return args.Int(0), args.Error(1)
}

type MockProductStore struct{ mock.Mock }

func (m *MockProductStore) ListActiveByPopup(popupID int) ([]models.Product, error) {
	args := m.Called(popupID)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) GetByIDs(ids []int) ([]models.Product, error) {
	args := m.Called(ids)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

type MockCouponStore struct{ mock.Mock }

func (m *MockCouponStore) GetByCode(popupID int, code string) (*models.CouponCode, error) {
	args := m.Called(popupID, code)
	c, _ := args.Get(0).(*models.CouponCode)
	return c, args.Error(1)
}

type MockPaymentStore struct{ mock.Mock }

func (m *MockPaymentStore) Create(p *models.Payment) error {
	return m.Called(p).Error(0)
}

func (m *MockPaymentStore) GetByExternalID(externalID string) (*models.Payment, error) {
	args := m.Called(externalID)
	p, _ := args.Get(0).(*models.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentStore) ListByApplication(applicationID int) ([]models.Payment, error) {
	args := m.Called(applicationID)
	p, _ := args.Get(0).([]models.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentStore) Transition(p *models.Payment, status models.PaymentStatus) (bool, error) {
	args := m.Called(p, status)
	if args.Bool(0) {
		p.Status = status
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentStore) ListPendingBefore(cutoff time.Time, limit int) ([]models.Payment, error) {
	args := m.Called(cutoff, limit)
	p, _ := args.Get(0).([]models.Payment)
	return p, args.Error(1)
}

type MockLoginCodeStore struct{ mock.Mock }

func (m *MockLoginCodeStore) Set(ctx context.Context, data *cache.LoginCode) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockLoginCodeStore) GetByEmail(ctx context.Context, email string) (*cache.LoginCode, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*cache.LoginCode)
	return c, args.Error(1)
}

func (m *MockLoginCodeStore) GetByToken(ctx context.Context, token string) (*cache.LoginCode, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(*cache.LoginCode)
	return c, args.Error(1)
}

func (m *MockLoginCodeStore) RecordAttempt(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoginCodeStore) Delete(ctx context.Context, data *cache.LoginCode) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockLoginCodeStore) TTL() time.Duration { return 15 * time.Minute }

type MockCatalogStore struct{ mock.Mock }

func (m *MockCatalogStore) Get(ctx context.Context, popupID int) ([]models.Product, error) {
	args := m.Called(ctx, popupID)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

func (m *MockCatalogStore) Set(ctx context.Context, popupID int, products []models.Product) error {
	return m.Called(ctx, popupID, products).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, msg Mail) error {
	return m.Called(ctx, msg).Error(0)
}
