package geolocate

import (
	"time"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

// SessionLocation is the last-known coordinate for a dashboard session,
// cached server-side with a 24 hour expiry.
type SessionLocation struct {
	Location  traffic.Location `json:"location"`
	Timestamp time.Time        `json:"timestamp"`
	SessionID string           `json:"session_id"`
}

// UpdateLocationRequest is the payload for storing a session location.
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Address   string  `json:"address,omitempty"`
}
