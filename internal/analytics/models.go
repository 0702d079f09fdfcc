package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Recognized event types. Unknown types are rejected at the API edge but
// the store itself does not care.
const (
	EventRouteSearch      = "route_search"
	EventRouteSaved       = "route_saved"
	EventInsightRequested = "insight_requested"
	EventTrafficViewed    = "traffic_viewed"
)

// Event is one insert-only usage record. UserID is nil for anonymous
// sessions.
type Event struct {
	ID        uuid.UUID              `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Summary aggregates a user's activity.
type Summary struct {
	TotalEvents   int            `json:"total_events"`
	CountsByType  map[string]int `json:"counts_by_type"`
	FirstActivity *time.Time     `json:"first_activity,omitempty"`
	LastActivity  *time.Time     `json:"last_activity,omitempty"`
}

// RecordRequest is the POST payload for recording an event.
type RecordRequest struct {
	EventType string                 `json:"event_type" validate:"required,oneof=route_search route_saved insight_requested traffic_viewed"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
