package geolocate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/common"
	"github.com/roadpulse/roadpulse/pkg/validation"
)

// SessionIDHeader identifies the dashboard session for location caching.
const SessionIDHeader = "X-Session-ID"

// Handler exposes the session location endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new geolocation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers session location routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	{
		session.GET("/location", h.GetLocation)
		session.PUT("/location", h.UpdateLocation)
	}
}

// GetLocation handles GET /session/location
func (h *Handler) GetLocation(c *gin.Context) {
	sessionID := c.GetHeader(SessionIDHeader)
	if sessionID == "" {
		common.ErrorResponse(c, http.StatusBadRequest, SessionIDHeader+" header is required")
		return
	}

	entry, err := h.service.GetLocation(c.Request.Context(), sessionID)
	if common.HandleServiceError(c, err, "failed to load session location") {
		return
	}
	if entry == nil {
		common.ErrorResponse(c, http.StatusNotFound, "no location stored for this session")
		return
	}

	common.SuccessResponse(c, entry)
}

// UpdateLocation handles PUT /session/location
func (h *Handler) UpdateLocation(c *gin.Context) {
	sessionID := c.GetHeader(SessionIDHeader)
	if sessionID == "" {
		common.ErrorResponse(c, http.StatusBadRequest, SessionIDHeader+" header is required")
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	address := req.Address
	if address == "" {
		address = h.service.ResolveRegion(c.Request.Context(), req.Latitude, req.Longitude)
	}

	entry, err := h.service.SaveLocation(c.Request.Context(), sessionID, traffic.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   address,
	})
	if common.HandleServiceError(c, err, "failed to store session location") {
		return
	}

	common.SuccessResponse(c, entry)
}
