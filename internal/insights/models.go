package insights

import (
	"github.com/roadpulse/roadpulse/internal/traffic"
)

// AITrafficInsight is the structured narrative produced from current
// conditions. Never persisted; each call supersedes the last.
type AITrafficInsight struct {
	Severity              traffic.Severity `json:"severity"`
	Confidence            float64          `json:"confidence"` // 0-1
	Summary               string           `json:"summary"`
	Recommendations       []string         `json:"recommendations"`
	PredictedCongestion   int              `json:"predicted_congestion"` // 0-100
	BestTimeToTravel      string           `json:"best_time_to_travel"`
	AlternativeRoute      string           `json:"alternative_route,omitempty"`
	EstimatedDelayMinutes int              `json:"estimated_delay_minutes"` // clamped 0-60
}

// RouteContext is the route summary handed to the optimizer prompt.
type RouteContext struct {
	Summary                  string           `json:"summary"`
	DistanceMiles            float64          `json:"distance_miles"`
	DurationMinutes          float64          `json:"duration_minutes"`
	DurationInTrafficMinutes float64          `json:"duration_in_traffic_minutes"`
	TrafficLevel             traffic.Severity `json:"traffic_level"`
	Destination              string           `json:"destination"`
}

// TrendForecast is the structured multi-hour outlook.
type TrendForecast struct {
	Trend                 string   `json:"trend"` // improving, stable, worsening
	Summary               string   `json:"summary"`
	PeakHours             []string `json:"peak_hours"`
	ExpectedChangePercent int      `json:"expected_change_percent"`
}
