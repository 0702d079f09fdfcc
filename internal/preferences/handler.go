package preferences

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadpulse/roadpulse/pkg/common"
	"github.com/roadpulse/roadpulse/pkg/validation"
)

// Handler exposes the preferences endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new preferences handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers preference routes on the authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.Get)
	rg.PUT("/preferences", h.Update)
}

// Get handles GET /preferences
func (h *Handler) Get(c *gin.Context) {
	userID, ok := common.UserIDFromContext(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	prefs, err := h.service.Get(c.Request.Context(), userID)
	if common.HandleServiceError(c, err, "failed to load preferences") {
		return
	}

	common.SuccessResponse(c, prefs)
}

// Update handles PUT /preferences
func (h *Handler) Update(c *gin.Context) {
	userID, ok := common.UserIDFromContext(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.Update(c.Request.Context(), userID, req)
	if common.HandleServiceError(c, err, "failed to update preferences") {
		return
	}

	common.SuccessResponse(c, prefs)
}
