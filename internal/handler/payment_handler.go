package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/popupcity/portal_api/internal/middleware"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

// maxWebhookBody caps the size of provider notifications.
const maxWebhookBody = 1 << 16

// PaymentHandler handles checkout and payment provider notifications.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles POST /v1/portal/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	p, err := h.paymentService.Create(c.Request.Context(), middleware.CitizenID(c), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 201, "Payment created", p)
}

// List handles GET /v1/portal/payments?application_id=
func (h *PaymentHandler) List(c *gin.Context) {
	appID, ok := queryInt(c, "application_id")
	if !ok {
		return
	}
	payments, err := h.paymentService.List(middleware.CitizenID(c), appID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Payments retrieved", payments)
}

// Webhook handles POST /webhook/payments
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		invalidBody(c)
		return
	}

	p, err := h.paymentService.HandleWebhook(body, c.GetHeader("X-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("Payment webhook rejected")
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Webhook processed", gin.H{
		"external_id": p.ExternalID,
		"status":      p.Status,
	})
}
