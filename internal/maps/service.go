package maps

import (
	"context"

	"github.com/roadpulse/roadpulse/pkg/resilience"
)

// Service fronts a single provider instance shared by all callers. The
// provider is constructed once at the composition root and injected; the
// optional circuit breaker sheds load when the upstream is failing.
type Service struct {
	provider MapsProvider
	breaker  *resilience.CircuitBreaker
}

// NewService creates a new maps service
func NewService(provider MapsProvider, breaker *resilience.CircuitBreaker) *Service {
	return &Service{provider: provider, breaker: breaker}
}

// Ready reports whether a provider is configured. Callers treat an
// unconfigured provider as "no data", never as an error.
func (s *Service) Ready() bool {
	return s != nil && s.provider != nil
}

// GetRoute calculates routes through the breaker.
func (s *Service) GetRoute(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.provider.GetRoute(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*RouteResponse), nil
}

// SearchText resolves free-form text to candidate places.
func (s *Service) SearchText(ctx context.Context, query string, near *Coordinate) (*PlaceSearchResponse, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.provider.SearchText(ctx, query, near)
	})
	if err != nil {
		return nil, err
	}
	return result.(*PlaceSearchResponse), nil
}

// SearchNearby finds places of a category around a location.
func (s *Service) SearchNearby(ctx context.Context, location Coordinate, radiusMeters int, category string) (*PlaceSearchResponse, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.provider.SearchNearby(ctx, location, radiusMeters, category)
	})
	if err != nil {
		return nil, err
	}
	return result.(*PlaceSearchResponse), nil
}

// ReverseGeocode converts a coordinate to a human-readable address.
func (s *Service) ReverseGeocode(ctx context.Context, location Coordinate) (*GeocodeResult, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.provider.ReverseGeocode(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	return result.(*GeocodeResult), nil
}

// HealthCheck verifies the provider is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return nil
	}
	return s.provider.HealthCheck(ctx)
}
