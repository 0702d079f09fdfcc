package routes

import (
	"time"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

// Calculation result statuses. Validation and provider failures are data,
// not Go errors, so the dashboard can render the message directly.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CalculateRequest is the payload for a route comparison.
type CalculateRequest struct {
	Origin        Coordinate `json:"origin"`
	Destination   string     `json:"destination"`
	Mode          string     `json:"mode,omitempty" validate:"omitempty,travel_mode"`
	AvoidTolls    bool       `json:"avoid_tolls,omitempty"`
	AvoidHighways bool       `json:"avoid_highways,omitempty"`
}

// Coordinate mirrors the maps coordinate with validation tags.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// CalculateResult is a scored batch of route alternatives. Savings is a
// property of the batch: it is back-filled on the recommended route after
// every alternative is scored.
type CalculateResult struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Routes  []RouteResult `json:"routes"`
}

// RouteResult is one scored alternative, in provider order.
type RouteResult struct {
	ID                       string           `json:"id"`
	Summary                  string           `json:"summary"`
	Description              string           `json:"description,omitempty"`
	DistanceMiles            float64          `json:"distance_miles"`
	DurationMinutes          float64          `json:"duration_minutes"`
	DurationInTrafficMinutes float64          `json:"duration_in_traffic_minutes"`
	DelayMinutes             float64          `json:"delay_minutes"`
	TrafficLevel             traffic.Severity `json:"traffic_level"`
	Recommended              bool             `json:"recommended"`
	SavingsMinutes           *float64         `json:"savings_minutes,omitempty"`
	Waypoints                []string         `json:"waypoints,omitempty"`
	EncodedPolyline          string           `json:"encoded_polyline,omitempty"`
}

// SavedRoute is the persisted projection of a RouteResult.
type SavedRoute struct {
	ID                       uuid.UUID        `json:"id"`
	UserID                   uuid.UUID        `json:"user_id"`
	Summary                  string           `json:"summary"`
	OriginLatitude           float64          `json:"origin_latitude"`
	OriginLongitude          float64          `json:"origin_longitude"`
	Destination              string           `json:"destination"`
	DistanceMiles            float64          `json:"distance_miles"`
	DurationMinutes          float64          `json:"duration_minutes"`
	DurationInTrafficMinutes float64          `json:"duration_in_traffic_minutes"`
	TrafficLevel             traffic.Severity `json:"traffic_level"`
	Waypoints                []string         `json:"waypoints,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
}
