package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/popupcity/portal_api/internal/config"
	"github.com/popupcity/portal_api/internal/metrics"
	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/pricing"
	"github.com/popupcity/portal_api/internal/utils"
)

// expiryBatchSize bounds how many payments one expiry run closes.
const expiryBatchSize = 200

// PaymentService turns a pass selection into a payment and follows it
// through the payment provider's webhooks.
type PaymentService struct {
	payments PaymentStore
	passes   *PassService
	coupons  *CouponService
	cfg      *config.PaymentConfig
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments PaymentStore, passes *PassService, coupons *CouponService, cfg *config.PaymentConfig) *PaymentService {
	return &PaymentService{payments: payments, passes: passes, coupons: coupons, cfg: cfg}
}

// PaymentItem is one requested pass.
type PaymentItem struct {
	ProductID  int `json:"productId" binding:"required"`
	AttendeeID int `json:"attendeeId" binding:"required"`
}

// CreatePaymentRequest is a checkout of a pass selection.
type CreatePaymentRequest struct {
	ApplicationID int           `json:"applicationId" binding:"required"`
	Products      []PaymentItem `json:"products" binding:"required"`
	CouponCode    string        `json:"couponCode"`
}

// WebhookPayload is the signed body the payment provider posts.
type WebhookPayload struct {
	ExternalID string               `json:"external_id"`
	Status     models.PaymentStatus `json:"status"`
}

// Create prices the requested passes on a freshly built roster and records
// the payment. A payment with nothing left to charge is approved at once.
func (s *PaymentService) Create(ctx context.Context, citizenID int, req *CreatePaymentRequest) (*models.Payment, error) {
	r, err := s.passes.BuildRoster(ctx, citizenID, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	app := r.Application

	var discount models.Discount
	if strings.TrimSpace(req.CouponCode) != "" {
		discount, err = s.coupons.Redeem(app.PopupCityID, req.CouponCode)
		if err != nil {
			return nil, err
		}
	} else {
		discount = awarded(app)
	}

	roster, err := applySelection(r.Attendees, req.Products)
	if err != nil {
		return nil, err
	}
	lines := purchaseLines(roster)
	if len(lines) == 0 {
		return nil, utils.ErrNothingToPurchase
	}

	amount := pricing.Payable(roster, discount)

	p := &models.Payment{
		ExternalID:    "pay_" + uuid.NewString(),
		ApplicationID: app.ID,
		Status:        models.PaymentPending,
		Amount:        amount,
		Currency:      s.cfg.Currency,
		Products:      lines,
	}
	if discount.Code != "" {
		code := discount.Code
		p.CouponCode = &code
	}
	if !discount.Value.IsZero() {
		p.DiscountValue = decimal.NewNullDecimal(discount.Value)
	}
	if amount.IsZero() {
		p.Status = models.PaymentApproved
	} else {
		checkout := strings.TrimRight(s.cfg.CheckoutBaseURL, "/") + "/" + p.ExternalID
		p.CheckoutURL = &checkout
	}

	if err := s.payments.Create(p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	metrics.Payments.WithLabelValues(string(p.Status)).Inc()

	log.Info().
		Int("application_id", app.ID).
		Str("external_id", p.ExternalID).
		Str("amount", p.Amount.String()).
		Str("status", string(p.Status)).
		Int("lines", len(p.Products)).
		Msg("Payment created")
	return p, nil
}

// applySelection toggles each requested pass on. Passes already selected by
// an earlier toggle, such as a month completed by four weeks, stay selected.
func applySelection(roster []models.PassAttendee, items []PaymentItem) ([]models.PassAttendee, error) {
	for _, item := range items {
		p, ok := findPass(roster, item.AttendeeID, item.ProductID)
		if !ok {
			return nil, utils.ErrProductNotFound
		}
		if p.Selected || p.Purchased {
			continue
		}
		roster = pricing.Resolve(roster, item.AttendeeID, p)
	}
	return roster, nil
}

func findPass(roster []models.PassAttendee, attendeeID, productID int) (models.Pass, bool) {
	for _, a := range roster {
		if a.ID != attendeeID {
			continue
		}
		for _, p := range a.Products {
			if p.ID == productID {
				return p, true
			}
		}
	}
	return models.Pass{}, false
}

// purchaseLines lists what the payment buys. Owned passes are skipped and
// an attendee's weeks are dropped when their month is bought instead.
func purchaseLines(roster []models.PassAttendee) []models.PaymentProduct {
	var lines []models.PaymentProduct
	for _, a := range roster {
		monthSelected := false
		for _, p := range a.Products {
			if p.Category == models.ProductCategoryMonth && p.Selected && !p.Purchased {
				monthSelected = true
			}
		}
		for _, p := range a.Products {
			if !p.Selected || p.Purchased {
				continue
			}
			if monthSelected && p.Category == models.ProductCategoryWeek {
				continue
			}
			lines = append(lines, models.PaymentProduct{
				ProductID:  p.ID,
				AttendeeID: a.ID,
				Name:       p.Name,
				Category:   p.Category,
				Price:      p.Price,
			})
		}
	}
	return lines
}

// List returns the payments of the citizen's application.
func (s *PaymentService) List(citizenID, applicationID int) ([]models.Payment, error) {
	if _, err := s.passes.apps.owned(citizenID, applicationID); err != nil {
		return nil, err
	}
	return s.payments.ListByApplication(applicationID)
}

// HandleWebhook verifies and applies a payment provider notification.
// Notifications for payments that are no longer pending are acknowledged
// without effect.
func (s *PaymentService) HandleWebhook(body []byte, signature string) (*models.Payment, error) {
	if !utils.VerifySignature(body, signature, s.cfg.WebhookSecret) {
		return nil, utils.ErrInvalidSignature
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidPaymentStatus, err)
	}
	if !payload.Status.IsFinal() {
		return nil, utils.ErrInvalidPaymentStatus
	}

	p, err := s.payments.GetByExternalID(payload.ExternalID)
	if err != nil {
		return nil, notFound(err, utils.ErrPaymentNotFound)
	}

	changed, err := s.payments.Transition(p, payload.Status)
	if err != nil {
		return nil, fmt.Errorf("transition payment: %w", err)
	}
	if !changed {
		log.Info().Str("external_id", p.ExternalID).Str("status", string(p.Status)).Msg("Webhook ignored, payment already closed")
		return p, nil
	}

	metrics.Payments.WithLabelValues(string(p.Status)).Inc()
	log.Info().Str("external_id", p.ExternalID).Str("status", string(p.Status)).Msg("Payment updated")
	return p, nil
}

// ExpirePending closes pending payments older than ttl and returns how many
// were expired.
func (s *PaymentService) ExpirePending(ctx context.Context, ttl time.Duration) (int, error) {
	pending, err := s.payments.ListPendingBefore(time.Now().Add(-ttl), expiryBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range pending {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		changed, err := s.payments.Transition(&pending[i], models.PaymentExpired)
		if err != nil {
			log.Error().Err(err).Str("external_id", pending[i].ExternalID).Msg("Failed to expire payment")
			continue
		}
		if changed {
			expired++
			metrics.Payments.WithLabelValues(string(models.PaymentExpired)).Inc()
		}
	}
	return expired, nil
}
