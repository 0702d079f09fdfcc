package maps

import "context"

// MapsProvider defines the operations this service needs from a mapping
// provider: directions with live traffic, place search, and reverse
// geocoding. Routing and geocoding are always delegated; nothing here is
// computed locally.
type MapsProvider interface {
	// GetRoute calculates routes from an origin coordinate to a
	// destination address, optionally with alternatives and live-traffic
	// durations.
	GetRoute(ctx context.Context, req *RouteRequest) (*RouteResponse, error)

	// SearchText resolves free-form text to candidate places.
	SearchText(ctx context.Context, query string, near *Coordinate) (*PlaceSearchResponse, error)

	// SearchNearby finds places of a category around a location.
	SearchNearby(ctx context.Context, location Coordinate, radiusMeters int, category string) (*PlaceSearchResponse, error)

	// ReverseGeocode converts a coordinate to a human-readable address.
	ReverseGeocode(ctx context.Context, location Coordinate) (*GeocodeResult, error)

	// HealthCheck verifies the provider is reachable and the key is valid.
	HealthCheck(ctx context.Context) error

	Name() Provider
}

// ProviderConfig holds configuration for a maps provider
type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
	Timeout int    `json:"timeout_seconds,omitempty"`
}
