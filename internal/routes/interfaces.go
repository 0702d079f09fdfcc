package routes

import (
	"context"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/internal/maps"
)

// MapsAPI is the slice of the maps service this package depends on.
type MapsAPI interface {
	Ready() bool
	GetRoute(ctx context.Context, req *maps.RouteRequest) (*maps.RouteResponse, error)
	SearchText(ctx context.Context, query string, near *maps.Coordinate) (*maps.PlaceSearchResponse, error)
}

// RepositoryInterface defines the persistence operations needed by the service.
type RepositoryInterface interface {
	SaveBatch(ctx context.Context, userID uuid.UUID, destination string, origin Coordinate, results []RouteResult) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*SavedRoute, error)
	Delete(ctx context.Context, userID, routeID uuid.UUID) error
}

// AnalyticsRecorder records usage events, best-effort.
type AnalyticsRecorder interface {
	Record(ctx context.Context, userID *uuid.UUID, eventType string, payload map[string]interface{})
}

// Publisher notifies subscribers of saved route batches.
type Publisher interface {
	Publish(subject string, data interface{})
}
