package maps

import "time"

// Provider identifies a mapping provider implementation.
type Provider string

const (
	ProviderGoogle Provider = "google"
)

// Travel modes accepted by the directions API.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeTransit   = "transit"
	ModeBicycling = "bicycling"
)

// Directions API status codes surfaced to callers. Non-OK statuses are
// data, not errors: the route comparison layer maps them to user-facing
// messages.
const (
	StatusOK                   = "OK"
	StatusNotFound             = "NOT_FOUND"
	StatusZeroResults          = "ZERO_RESULTS"
	StatusMaxWaypointsExceeded = "MAX_WAYPOINTS_EXCEEDED"
	StatusInvalidRequest       = "INVALID_REQUEST"
	StatusOverQueryLimit       = "OVER_QUERY_LIMIT"
	StatusRequestDenied        = "REQUEST_DENIED"
	StatusUnknownError         = "UNKNOWN_ERROR"
)

// statusMessages maps provider statuses to the fixed user-facing messages.
var statusMessages = map[string]string{
	StatusNotFound:             "One of the locations could not be found. Please check the addresses and try again.",
	StatusZeroResults:          "No routes could be found between the origin and destination.",
	StatusMaxWaypointsExceeded: "Too many waypoints were provided for this request.",
	StatusInvalidRequest:       "The route request was invalid. Please check your input and try again.",
	StatusOverQueryLimit:       "The mapping service is temporarily over its request limit. Please try again shortly.",
	StatusRequestDenied:        "The mapping service denied this request.",
	StatusUnknownError:         "The mapping service returned an unknown error. Please try again.",
}

const defaultStatusMessage = "Unable to calculate routes right now. Please try again."

// StatusMessage returns the user-facing message for a directions status.
func StatusMessage(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return defaultStatusMessage
}

// Coordinate represents a geographic point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RouteRequest represents a request for route calculation. Destination is
// an address or place string; the provider geocodes it server-side, which
// yields better results than raw coordinates.
type RouteRequest struct {
	Origin        Coordinate `json:"origin"`
	Destination   string     `json:"destination"`
	Mode          string     `json:"mode,omitempty"`
	Alternatives  bool       `json:"alternatives,omitempty"`
	AvoidTolls    bool       `json:"avoid_tolls,omitempty"`
	AvoidHighways bool       `json:"avoid_highways,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	TrafficModel  string     `json:"traffic_model,omitempty"` // best_guess, pessimistic, optimistic
}

// RouteResponse represents the response from a route calculation
type RouteResponse struct {
	Status string  `json:"status"`
	Routes []Route `json:"routes"`
}

// Route represents a single route option, index-ordered as returned by
// the provider.
type Route struct {
	Summary                  string      `json:"summary"`
	DistanceMeters           int         `json:"distance_meters"`
	DurationSeconds          int         `json:"duration_seconds"`
	DurationInTrafficSeconds int         `json:"duration_in_traffic_seconds,omitempty"`
	StartAddress             string      `json:"start_address,omitempty"`
	EndAddress               string      `json:"end_address,omitempty"`
	EncodedPolyline          string      `json:"encoded_polyline,omitempty"`
	Steps                    []RouteStep `json:"steps,omitempty"`
	Warnings                 []string    `json:"warnings,omitempty"`
}

// RouteStep represents a single navigation instruction
type RouteStep struct {
	Instruction     string `json:"instruction"`
	Maneuver        string `json:"maneuver,omitempty"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Place represents a place search result
type Place struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Location Coordinate `json:"location"`
	Types    []string   `json:"types,omitempty"`
	Rating   float64    `json:"rating,omitempty"`
}

// PlaceSearchResponse represents the response from a place search
type PlaceSearchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

// GeocodeResult represents a reverse geocoding result
type GeocodeResult struct {
	Address  string     `json:"address"`
	PlaceID  string     `json:"place_id,omitempty"`
	Location Coordinate `json:"location"`
}
