package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

// PopupHandler serves the public popup directory.
type PopupHandler struct {
	popupService *service.PopupService
}

func NewPopupHandler(popupService *service.PopupService) *PopupHandler {
	return &PopupHandler{popupService: popupService}
}

// List handles GET /v1/popups
func (h *PopupHandler) List(c *gin.Context) {
	popups, err := h.popupService.List()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Popups retrieved", popups)
}

// Get handles GET /v1/popups/:slug
func (h *PopupHandler) Get(c *gin.Context) {
	popup, err := h.popupService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Popup retrieved", popup)
}
