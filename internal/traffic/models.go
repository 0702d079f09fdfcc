package traffic

import "time"

// Severity is the ordered traffic-impact classification.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeveritySevere   Severity = "severe"
)

// Rank returns the position of the severity in the low < moderate < high
// < severe ordering. Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityModerate:
		return 1
	case SeverityHigh:
		return 2
	case SeveritySevere:
		return 3
	default:
		return -1
	}
}

// Condition identifier prefixes. The prefix is load-bearing: only
// real-provenance conditions may be served from cache, simulated ones are
// always regenerated.
const (
	RealConditionPrefix      = "real-traffic-"
	SimulatedConditionPrefix = "simulation-"
)

// Confidence policy constants. These are presentation constants, not
// calibrated probabilities; callers must not treat them as measured.
const (
	RealDataConfidence      = 95
	SimulatedDataConfidence = 70
)

// CacheFreshness is the validity window for cached conditions.
const CacheFreshness = 5 * time.Minute

// Location is a coordinate with an optional display address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// TrafficCondition is a single observed or simulated traffic state near a
// point of interest.
type TrafficCondition struct {
	ID                       string    `json:"id"`
	Location                 Location  `json:"location"`
	Severity                 Severity  `json:"severity"`
	SpeedMph                 float64   `json:"speed_mph"`
	DurationMinutes          float64   `json:"duration_minutes"`
	PredictedDurationMinutes float64   `json:"predicted_duration_minutes"`
	Confidence               int       `json:"confidence"` // 0-100
	Timestamp                time.Time `json:"timestamp"`
	AffectedRoutes           []string  `json:"affected_routes,omitempty"`
	Cause                    string    `json:"cause,omitempty"`
	Description              string    `json:"description,omitempty"`
}

// IsReal reports whether the condition came from live provider data.
func (c *TrafficCondition) IsReal() bool {
	return len(c.ID) >= len(RealConditionPrefix) && c.ID[:len(RealConditionPrefix)] == RealConditionPrefix
}

// HourlyPrediction is one point of the congestion forecast.
type HourlyPrediction struct {
	Time              time.Time `json:"time"`
	CongestionPercent int       `json:"congestion_percent"` // 0-100
	Confidence        int       `json:"confidence"`         // 0-100
}

// PredictionFactors are the fixed display weights attributed to each
// input. They do not reflect the actual input mix.
type PredictionFactors struct {
	RealTimePercent   int `json:"real_time_percent"`
	HistoricalPercent int `json:"historical_percent"`
	WeatherPercent    int `json:"weather_percent"`
	EventsPercent     int `json:"events_percent"`
}

// Forecast is the 12-point hourly congestion outlook for a location.
type Forecast struct {
	Timestamp   time.Time          `json:"timestamp"`
	Predictions []HourlyPrediction `json:"predictions"`
	Accuracy    int                `json:"accuracy"` // 0-100
	Factors     PredictionFactors  `json:"factors"`
}
