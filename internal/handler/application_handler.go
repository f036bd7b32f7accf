package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/middleware"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
)

// ApplicationHandler exposes the citizen's applications and their attendees.
type ApplicationHandler struct {
	appService      *service.ApplicationService
	attendeeService *service.AttendeeService
}

func NewApplicationHandler(appService *service.ApplicationService, attendeeService *service.AttendeeService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService, attendeeService: attendeeService}
}

// List handles GET /v1/portal/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.appService.List(middleware.CitizenID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Applications retrieved", apps)
}

// Get handles GET /v1/portal/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	app, err := h.appService.Get(middleware.CitizenID(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Application retrieved", app)
}

// Import handles GET /v1/portal/applications/import?popup_city_id=
func (h *ApplicationHandler) Import(c *gin.Context) {
	popupID, ok := queryInt(c, "popup_city_id")
	if !ok {
		return
	}
	res, err := h.appService.Import(middleware.CitizenID(c), popupID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Application prefill retrieved", res)
}

// Save handles POST /v1/portal/applications
func (h *ApplicationHandler) Save(c *gin.Context) {
	var req service.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	app, err := h.appService.Save(middleware.CitizenID(c), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Application saved", app)
}

// Submit handles POST /v1/portal/applications/:id/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	app, err := h.appService.Submit(middleware.CitizenID(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Application submitted", app)
}

// CreateAttendee handles POST /v1/portal/applications/:id/attendees
func (h *ApplicationHandler) CreateAttendee(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req service.AttendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	a, err := h.attendeeService.Create(middleware.CitizenID(c), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 201, "Attendee created", a)
}

// UpdateAttendee handles PUT /v1/portal/applications/:id/attendees/:attendeeId
func (h *ApplicationHandler) UpdateAttendee(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	attendeeID, ok := paramInt(c, "attendeeId")
	if !ok {
		return
	}
	var req service.AttendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	a, err := h.attendeeService.Update(middleware.CitizenID(c), id, attendeeID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Attendee updated", a)
}

// DeleteAttendee handles DELETE /v1/portal/applications/:id/attendees/:attendeeId
func (h *ApplicationHandler) DeleteAttendee(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	attendeeID, ok := paramInt(c, "attendeeId")
	if !ok {
		return
	}
	if err := h.attendeeService.Delete(middleware.CitizenID(c), id, attendeeID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, 200, "Attendee deleted", nil)
}
