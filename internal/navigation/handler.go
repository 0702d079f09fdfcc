package navigation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roadpulse/roadpulse/pkg/common"
)

// Handler exposes the navigation hand-off endpoint.
type Handler struct{}

// NewHandler creates a new navigation handler
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes registers navigation routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/navigation/apps", h.GetApps)
}

// GetApps handles GET /navigation/apps?lat=&lng=&label=
func (h *Handler) GetApps(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		common.ErrorResponse(c, http.StatusBadRequest, "lat must be a number between -90 and 90")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		common.ErrorResponse(c, http.StatusBadRequest, "lng must be a number between -180 and 180")
		return
	}

	apps := Apps(Destination{
		Latitude:  lat,
		Longitude: lng,
		Label:     c.Query("label"),
	})

	common.SuccessResponse(c, gin.H{"apps": apps})
}
