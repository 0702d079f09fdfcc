package preferences

import (
	"time"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

// UserPreferences is one row per user with upsert semantics.
type UserPreferences struct {
	UserID                   uuid.UUID         `json:"user_id"`
	DefaultTravelMode        string            `json:"default_travel_mode"`
	AvoidTolls               bool              `json:"avoid_tolls"`
	AvoidHighways            bool              `json:"avoid_highways"`
	Units                    string            `json:"units"` // imperial or metric
	TrafficRefreshSeconds    int               `json:"traffic_refresh_seconds"`
	PredictionRefreshSeconds int               `json:"prediction_refresh_seconds"`
	HomeLocation             *traffic.Location `json:"home_location,omitempty"`
	WorkLocation             *traffic.Location `json:"work_location,omitempty"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// UpdateRequest is the PUT payload. Zero values are meaningful, so the
// whole document is replaced on update rather than patched.
type UpdateRequest struct {
	DefaultTravelMode        string            `json:"default_travel_mode" validate:"omitempty,travel_mode"`
	AvoidTolls               bool              `json:"avoid_tolls"`
	AvoidHighways            bool              `json:"avoid_highways"`
	Units                    string            `json:"units" validate:"omitempty,oneof=imperial metric"`
	TrafficRefreshSeconds    int               `json:"traffic_refresh_seconds" validate:"omitempty,min=60,max=3600"`
	PredictionRefreshSeconds int               `json:"prediction_refresh_seconds" validate:"omitempty,min=60,max=3600"`
	HomeLocation             *traffic.Location `json:"home_location,omitempty"`
	WorkLocation             *traffic.Location `json:"work_location,omitempty"`
}

// DefaultPreferences returns the defaults served before a user has saved
// anything. Refresh intervals mirror the dashboard polling cadence.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:                   userID,
		DefaultTravelMode:        "driving",
		Units:                    "imperial",
		TrafficRefreshSeconds:    300,
		PredictionRefreshSeconds: 600,
	}
}
