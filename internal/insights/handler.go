package insights

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/common"
)

// ConditionsSource supplies current conditions for the trends endpoint.
type ConditionsSource interface {
	GetCurrentConditions(ctx context.Context, center traffic.Location, radiusMiles float64) []*traffic.TrafficCondition
}

// Handler exposes the insight endpoints.
type Handler struct {
	service    *Service
	conditions ConditionsSource
}

// NewHandler creates a new insights handler
func NewHandler(service *Service, conditions ConditionsSource) *Handler {
	return &Handler{service: service, conditions: conditions}
}

// RegisterRoutes registers insight routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/insights")
	{
		group.POST("/conditions", h.AnalyzeConditions)
		group.POST("/route", h.OptimizeRoute)
		group.GET("/trends", h.ForecastTrends)
	}
}

type analyzeRequest struct {
	Conditions []*traffic.TrafficCondition `json:"conditions"`
}

// AnalyzeConditions handles POST /insights/conditions
func (h *Handler) AnalyzeConditions(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	insight := h.service.AnalyzeConditions(c.Request.Context(), req.Conditions)
	common.SuccessResponse(c, insight)
}

// OptimizeRoute handles POST /insights/route
func (h *Handler) OptimizeRoute(c *gin.Context) {
	var req RouteContext
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestion := h.service.OptimizeRoute(c.Request.Context(), req)
	common.SuccessResponse(c, gin.H{"suggestion": suggestion})
}

// ForecastTrends handles GET /insights/trends?lat=&lng=
func (h *Handler) ForecastTrends(c *gin.Context) {
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

	conditions := h.conditions.GetCurrentConditions(c.Request.Context(),
		traffic.Location{Latitude: lat, Longitude: lng}, 5)
	forecast := h.service.ForecastTrends(c.Request.Context(), conditions)
	common.SuccessResponse(c, forecast)
}
