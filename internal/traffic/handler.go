package traffic

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roadpulse/roadpulse/pkg/common"
)

// Handler exposes the traffic endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new traffic handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers traffic routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	traffic := rg.Group("/traffic")
	{
		traffic.GET("/conditions", h.GetConditions)
		traffic.GET("/predictions", h.GetPredictions)
	}
}

// GetConditions handles GET /traffic/conditions?lat=&lng=&radius_miles=
func (h *Handler) GetConditions(c *gin.Context) {
	center, ok := parseCenter(c)
	if !ok {
		return
	}

	radiusMiles := 5.0
	if raw := c.Query("radius_miles"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 50 {
			common.ErrorResponse(c, http.StatusBadRequest, "radius_miles must be a number between 0 and 50")
			return
		}
		radiusMiles = parsed
	}

	conditions := h.service.GetCurrentConditions(c.Request.Context(), center, radiusMiles)
	common.SuccessResponse(c, gin.H{"conditions": conditions})
}

// GetPredictions handles GET /traffic/predictions?lat=&lng=
func (h *Handler) GetPredictions(c *gin.Context) {
	center, ok := parseCenter(c)
	if !ok {
		return
	}

	forecast := h.service.GetPredictions(c.Request.Context(), center)
	common.SuccessResponse(c, forecast)
}

func parseCenter(c *gin.Context) (Location, bool) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		common.ErrorResponse(c, http.StatusBadRequest, "lat must be a number between -90 and 90")
		return Location{}, false
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		common.ErrorResponse(c, http.StatusBadRequest, "lng must be a number between -180 and 180")
		return Location{}, false
	}

	return Location{Latitude: lat, Longitude: lng}, true
}
