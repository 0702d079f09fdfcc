package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/pkg/common"
	"github.com/roadpulse/roadpulse/pkg/validation"
)

// Handler exposes the analytics endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers event recording on the public group and the
// summary on the authenticated group.
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/analytics/events", h.RecordEvent)
	authed.GET("/analytics/summary", h.GetSummary)
}

// RecordEvent handles POST /analytics/events. Anonymous events are
// allowed; authenticated requests attach the user.
func (h *Handler) RecordEvent(c *gin.Context) {
	var req RecordRequest
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

	event, err := h.service.RecordSync(c.Request.Context(), userID, req)
	if common.HandleServiceError(c, err, "failed to record event") {
		return
	}

	common.CreatedResponse(c, event)
}

// GetSummary handles GET /analytics/summary
func (h *Handler) GetSummary(c *gin.Context) {
	userID, ok := common.UserIDFromContext(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	summary, err := h.service.SummaryForUser(c.Request.Context(), userID)
	if common.HandleServiceError(c, err, "failed to load analytics summary") {
		return
	}

	common.SuccessResponse(c, summary)
}
