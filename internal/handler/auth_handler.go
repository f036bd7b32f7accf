package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/middleware"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.authService.Login(c.Request.Context(), &req); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Login code sent", nil)
}

// Authenticate handles POST /v1/auth/authenticate
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req service.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Token == "" && (req.Email == "" || req.Code == "")) {
		invalidBody(c)
		return
	}

	res, err := h.authService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		status, _ := utils.StatusFor(err)
		if status == 401 && !h.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
			return
		}
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Authenticated", res)
}

// Me handles GET /v1/portal/me
func (h *AuthHandler) Me(c *gin.Context) {
	citizen, err := h.authService.Me(middleware.CitizenID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Citizen retrieved", citizen)
}
