package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/pkg/common"
	"github.com/roadpulse/roadpulse/pkg/validation"
)

// Handler exposes the route comparison endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new routes handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers calculation on the public group and saved-route
// management on the authenticated group.
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/routes/calculate", h.Calculate)

	saved := authed.Group("/routes/saved")
	{
		saved.GET("", h.GetSaved)
		saved.DELETE("/:id", h.DeleteSaved)
	}
}

// Calculate handles POST /routes/calculate. Authentication is optional;
// authenticated requests get their batch persisted.
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var userID *uuid.UUID
	if id, ok := common.UserIDFromContext(c); ok {
		userID = &id
	}

	result := h.service.CalculateRoutes(c.Request.Context(), userID, req)
	common.SuccessResponse(c, result)
}

// GetSaved handles GET /routes/saved
func (h *Handler) GetSaved(c *gin.Context) {
	userID, ok := common.UserIDFromContext(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	saved, err := h.service.GetSavedRoutes(c.Request.Context(), userID)
	if common.HandleServiceError(c, err, "failed to load saved routes") {
		return
	}

	common.SuccessResponse(c, gin.H{"routes": saved})
}

// DeleteSaved handles DELETE /routes/saved/:id
func (h *Handler) DeleteSaved(c *gin.Context) {
	userID, ok := common.UserIDFromContext(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	routeID, ok := common.ParseUUIDParam(c, "id", "route id")
	if !ok {
		return
	}

	err := h.service.DeleteSavedRoute(c.Request.Context(), userID, routeID)
	if common.HandleServiceError(c, err, "failed to delete saved route") {
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": routeID})
}
