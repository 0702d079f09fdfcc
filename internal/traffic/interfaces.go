package traffic

import (
	"context"
	"time"

	"github.com/roadpulse/roadpulse/internal/maps"
)

// MapsAPI is the slice of the maps service this pipeline depends on.
type MapsAPI interface {
	Ready() bool
	GetRoute(ctx context.Context, req *maps.RouteRequest) (*maps.RouteResponse, error)
	SearchNearby(ctx context.Context, location maps.Coordinate, radiusMeters int, category string) (*maps.PlaceSearchResponse, error)
	ReverseGeocode(ctx context.Context, location maps.Coordinate) (*maps.GeocodeResult, error)
}

// RepositoryInterface defines the persistence operations needed by the service.
type RepositoryInterface interface {
	GetRecentNear(ctx context.Context, lat, lng, radiusMiles float64, since time.Time) ([]*TrafficCondition, error)
	SaveBatch(ctx context.Context, conditions []*TrafficCondition) error
}

// Publisher notifies subscribers of newly derived conditions.
type Publisher interface {
	Publish(subject string, data interface{})
}
