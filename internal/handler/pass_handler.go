package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/middleware"
	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

// PassHandler serves the catalog and the pass selection endpoints.
type PassHandler struct {
	passService    *service.PassService
	catalogService *service.CatalogService
	couponService  *service.CouponService
}

func NewPassHandler(passService *service.PassService, catalogService *service.CatalogService, couponService *service.CouponService) *PassHandler {
	return &PassHandler{passService: passService, catalogService: catalogService, couponService: couponService}
}

// Products handles GET /v1/portal/products?popup_city_id=
func (h *PassHandler) Products(c *gin.Context) {
	popupID, ok := queryInt(c, "popup_city_id")
	if !ok {
		return
	}
	products, err := h.catalogService.Products(c.Request.Context(), popupID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// Passes handles GET /v1/portal/applications/:id/passes
func (h *PassHandler) Passes(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	citizenID := middleware.CitizenID(c)

	r, err := h.passService.BuildRoster(c.Request.Context(), citizenID, id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	discount, err := h.couponService.Discount(citizenID, r.Application.PopupCityID, c.Query("coupon_code"))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	res := h.passService.Total(&service.TotalRequest{Roster: r.Attendees, Discount: discount})
	utils.Success(c, 200, "Passes retrieved", gin.H{
		"roster":   res.Roster,
		"totals":   res.Totals,
		"payable":  res.Payable,
		"discount": discount,
	})
}

// Toggle handles POST /v1/portal/passes/toggle
func (h *PassHandler) Toggle(c *gin.Context) {
	var req service.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	utils.Success(c, 200, "Selection updated", h.passService.Toggle(&req))
}

// Total handles POST /v1/portal/passes/total
func (h *PassHandler) Total(c *gin.Context) {
	var req service.TotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	utils.Success(c, 200, "Totals calculated", h.passService.Total(&req))
}

// Coupon handles GET /v1/portal/coupon-codes?popup_city_id=&code=
func (h *PassHandler) Coupon(c *gin.Context) {
	popupID, ok := queryInt(c, "popup_city_id")
	if !ok {
		return
	}
	discount, err := h.couponService.Discount(middleware.CitizenID(c), popupID, c.Query("code"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Discount retrieved", couponResponse(discount))
}

type discountResponse struct {
	DiscountCode  *string `json:"discount_code"`
	DiscountValue string  `json:"discount_value"`
}

func couponResponse(d models.Discount) discountResponse {
	res := discountResponse{DiscountValue: d.Value.String()}
	if d.Code != "" {
		res.DiscountCode = &d.Code
	}
	return res
}
