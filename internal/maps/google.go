package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/pkg/httpclient"
	"github.com/roadpulse/roadpulse/pkg/logger"
)

const (
	googleMapsBaseURL        = "https://maps.googleapis.com/maps/api"
	googleDirectionsEndpoint = "/directions/json"
	googleGeocodingEndpoint  = "/geocode/json"
	googleNearbyEndpoint     = "/place/nearbysearch/json"
	googleTextSearchEndpoint = "/place/textsearch/json"
)

// GoogleMapsProvider implements MapsProvider against the Google Maps web APIs.
type GoogleMapsProvider struct {
	apiKey string
	client *httpclient.Client
}

// NewGoogleMapsProvider creates a new Google Maps provider
func NewGoogleMapsProvider(config ProviderConfig) *GoogleMapsProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = googleMapsBaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	return &GoogleMapsProvider{
		apiKey: config.APIKey,
		client: httpclient.NewClient(baseURL, time.Duration(timeout)*time.Second),
	}
}

// Name returns the provider name
func (g *GoogleMapsProvider) Name() Provider {
	return ProviderGoogle
}

// HealthCheck verifies the API key is valid
func (g *GoogleMapsProvider) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("latlng", "37.422476,-122.084250")
	params.Set("key", g.apiKey)

	resp, err := g.client.Get(ctx, googleGeocodingEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("google maps health check failed: %w", err)
	}

	var result struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse health check response: %w", err)
	}

	if result.Status != StatusOK && result.Status != StatusZeroResults {
		return fmt.Errorf("google maps API error: %s - %s", result.Status, result.ErrorMessage)
	}

	return nil
}

// GetRoute calculates routes from origin to a destination address.
// Non-OK directions statuses are returned in RouteResponse.Status, not as
// errors, so callers can map them to user-facing messages.
func (g *GoogleMapsProvider) GetRoute(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	params := url.Values{}
	params.Set("origin", formatCoordinate(req.Origin))
	params.Set("destination", req.Destination)
	params.Set("key", g.apiKey)

	mode := req.Mode
	if mode == "" {
		mode = ModeDriving
	}
	params.Set("mode", mode)

	// Live traffic only applies to driving
	if mode == ModeDriving {
		if req.DepartureTime != nil {
			params.Set("departure_time", strconv.FormatInt(req.DepartureTime.Unix(), 10))
		} else {
			params.Set("departure_time", "now")
		}
		if req.TrafficModel != "" {
			params.Set("traffic_model", req.TrafficModel)
		} else {
			params.Set("traffic_model", "best_guess")
		}
	}

	var avoid []string
	if req.AvoidTolls {
		avoid = append(avoid, "tolls")
	}
	if req.AvoidHighways {
		avoid = append(avoid, "highways")
	}
	if len(avoid) > 0 {
		params.Set("avoid", strings.Join(avoid, "|"))
	}

	if req.Alternatives {
		params.Set("alternatives", "true")
	}

	params.Set("units", "imperial")

	logger.Debug("google directions request", zap.String("destination", req.Destination))

	resp, err := g.client.Get(ctx, googleDirectionsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google maps directions request failed: %w", err)
	}

	var googleResp googleDirectionsResponse
	if err := json.Unmarshal(resp, &googleResp); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}

	return g.convertDirectionsResponse(&googleResp), nil
}

// SearchText resolves free-form text to candidate places.
func (g *GoogleMapsProvider) SearchText(ctx context.Context, query string, near *Coordinate) (*PlaceSearchResponse, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("query", query)
	if near != nil {
		params.Set("location", formatCoordinate(*near))
		params.Set("radius", "50000")
	}

	resp, err := g.client.Get(ctx, googleTextSearchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google maps text search failed: %w", err)
	}

	var googleResp googlePlacesResponse
	if err := json.Unmarshal(resp, &googleResp); err != nil {
		return nil, fmt.Errorf("failed to parse text search response: %w", err)
	}

	if googleResp.Status != StatusOK && googleResp.Status != StatusZeroResults {
		return nil, fmt.Errorf("google maps error: %s - %s", googleResp.Status, googleResp.ErrorMessage)
	}

	return g.convertPlacesResponse(&googleResp), nil
}

// SearchNearby finds places of a category around a location.
func (g *GoogleMapsProvider) SearchNearby(ctx context.Context, location Coordinate, radiusMeters int, category string) (*PlaceSearchResponse, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("location", formatCoordinate(location))
	if radiusMeters <= 0 {
		radiusMeters = 5000
	}
	params.Set("radius", strconv.Itoa(radiusMeters))
	if category != "" {
		params.Set("type", category)
	}

	resp, err := g.client.Get(ctx, googleNearbyEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google maps nearby search failed: %w", err)
	}

	var googleResp googlePlacesResponse
	if err := json.Unmarshal(resp, &googleResp); err != nil {
		return nil, fmt.Errorf("failed to parse nearby search response: %w", err)
	}

	if googleResp.Status != StatusOK && googleResp.Status != StatusZeroResults {
		return nil, fmt.Errorf("google maps error: %s - %s", googleResp.Status, googleResp.ErrorMessage)
	}

	return g.convertPlacesResponse(&googleResp), nil
}

// ReverseGeocode converts a coordinate to a human-readable address.
func (g *GoogleMapsProvider) ReverseGeocode(ctx context.Context, location Coordinate) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("latlng", formatCoordinate(location))

	resp, err := g.client.Get(ctx, googleGeocodingEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google maps reverse geocoding failed: %w", err)
	}

	var googleResp googleGeocodingResponse
	if err := json.Unmarshal(resp, &googleResp); err != nil {
		return nil, fmt.Errorf("failed to parse reverse geocoding response: %w", err)
	}

	if googleResp.Status == StatusZeroResults || len(googleResp.Results) == 0 {
		return nil, fmt.Errorf("no address found for %s", formatCoordinate(location))
	}
	if googleResp.Status != StatusOK {
		return nil, fmt.Errorf("google maps error: %s - %s", googleResp.Status, googleResp.ErrorMessage)
	}

	result := googleResp.Results[0]
	return &GeocodeResult{
		Address: CleanAddress(result.FormattedAddress),
		PlaceID: result.PlaceID,
		Location: Coordinate{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}, nil
}

// Conversion helpers

func formatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

func (g *GoogleMapsProvider) convertDirectionsResponse(resp *googleDirectionsResponse) *RouteResponse {
	routes := make([]Route, len(resp.Routes))

	for i, r := range resp.Routes {
		route := Route{
			Summary:         r.Summary,
			EncodedPolyline: r.OverviewPolyline.Points,
			Warnings:        r.Warnings,
		}

		// Aggregate totals from legs
		for _, leg := range r.Legs {
			route.DistanceMeters += leg.Distance.Value
			route.DurationSeconds += leg.Duration.Value
			if leg.DurationInTraffic.Value > 0 {
				route.DurationInTrafficSeconds += leg.DurationInTraffic.Value
			}
			if route.StartAddress == "" {
				route.StartAddress = CleanAddress(leg.StartAddress)
			}
			route.EndAddress = CleanAddress(leg.EndAddress)

			for _, step := range leg.Steps {
				route.Steps = append(route.Steps, RouteStep{
					Instruction:     step.HTMLInstructions,
					Maneuver:        step.Maneuver,
					DistanceMeters:  step.Distance.Value,
					DurationSeconds: step.Duration.Value,
				})
			}
		}

		routes[i] = route
	}

	return &RouteResponse{
		Status: resp.Status,
		Routes: routes,
	}
}

func (g *GoogleMapsProvider) convertPlacesResponse(resp *googlePlacesResponse) *PlaceSearchResponse {
	results := make([]Place, len(resp.Results))

	for i, p := range resp.Results {
		address := p.Vicinity
		if address == "" {
			address = p.FormattedAddress
		}

		results[i] = Place{
			ID:      p.PlaceID,
			Name:    p.Name,
			Address: CleanAddress(address),
			Location: Coordinate{
				Latitude:  p.Geometry.Location.Lat,
				Longitude: p.Geometry.Location.Lng,
			},
			Types:  p.Types,
			Rating: p.Rating,
		}
	}

	return &PlaceSearchResponse{
		Status:  resp.Status,
		Results: results,
	}
}

// Google Maps API response structures

type googleDirectionsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Routes       []googleRoute `json:"routes"`
}

type googleRoute struct {
	Summary          string         `json:"summary"`
	Legs             []googleLeg    `json:"legs"`
	OverviewPolyline googlePolyline `json:"overview_polyline"`
	Warnings         []string       `json:"warnings"`
}

type googleLeg struct {
	StartAddress      string       `json:"start_address"`
	EndAddress        string       `json:"end_address"`
	StartLocation     googleLatLng `json:"start_location"`
	EndLocation       googleLatLng `json:"end_location"`
	Distance          googleValue  `json:"distance"`
	Duration          googleValue  `json:"duration"`
	DurationInTraffic googleValue  `json:"duration_in_traffic"`
	Steps             []googleStep `json:"steps"`
}

type googleStep struct {
	HTMLInstructions string       `json:"html_instructions"`
	Distance         googleValue  `json:"distance"`
	Duration         googleValue  `json:"duration"`
	StartLocation    googleLatLng `json:"start_location"`
	EndLocation      googleLatLng `json:"end_location"`
	Maneuver         string       `json:"maneuver,omitempty"`
}

type googlePolyline struct {
	Points string `json:"points"`
}

type googleLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type googleGeocodingResponse struct {
	Status       string                  `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Results      []googleGeocodingResult `json:"results"`
}

type googleGeocodingResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
	PlaceID          string         `json:"place_id"`
	Types            []string       `json:"types"`
}

type googleGeometry struct {
	Location googleLatLng `json:"location"`
}

type googlePlacesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []googlePlace `json:"results"`
}

type googlePlace struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Vicinity         string         `json:"vicinity"`
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
	Types            []string       `json:"types"`
	Rating           float64        `json:"rating"`
}
