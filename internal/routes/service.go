package routes

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/internal/analytics"
	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/eventbus"
	"github.com/roadpulse/roadpulse/pkg/geo"
	"github.com/roadpulse/roadpulse/pkg/logger"
)

const maxWaypoints = 3

// Service compares route alternatives between an origin and a destination
// text, scoring each alternative with the shared severity classifier.
type Service struct {
	maps      MapsAPI
	repo      RepositoryInterface
	analytics AnalyticsRecorder
	bus       Publisher
}

// NewService creates a new routes service
func NewService(mapsAPI MapsAPI, repo RepositoryInterface, analytics AnalyticsRecorder, bus Publisher) *Service {
	return &Service{
		maps:      mapsAPI,
		repo:      repo,
		analytics: analytics,
		bus:       bus,
	}
}

// CalculateRoutes resolves the destination, fetches alternatives, and
// scores the batch. Validation and provider failures come back as an
// error-status result, never as a Go error; the message is user-facing.
// When userID is set the whole batch is persisted best-effort.
func (s *Service) CalculateRoutes(ctx context.Context, userID *uuid.UUID, req CalculateRequest) *CalculateResult {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return &CalculateResult{
			Status:  StatusError,
			Message: "Please enter a destination.",
		}
	}

	// No provider configured means no routes, not a panic or a 500.
	if s.maps == nil || !s.maps.Ready() {
		return &CalculateResult{
			Status:  StatusError,
			Message: maps.StatusMessage(""),
		}
	}

	origin := maps.Coordinate{Latitude: req.Origin.Latitude, Longitude: req.Origin.Longitude}

	search, err := s.maps.SearchText(ctx, destination, &origin)
	if err != nil {
		logger.WarnContext(ctx, "destination search failed", zap.Error(err))
		return &CalculateResult{
			Status:  StatusError,
			Message: maps.StatusMessage(maps.StatusUnknownError),
		}
	}
	if len(search.Results) == 0 {
		return &CalculateResult{
			Status:  StatusError,
			Message: fmt.Sprintf("No places found matching %q. Try a more specific address.", destination),
		}
	}

	resolved := search.Results[0]
	routeDestination := resolved.Address
	if routeDestination == "" {
		routeDestination = resolved.Name
	}

	resp, err := s.maps.GetRoute(ctx, &maps.RouteRequest{
		Origin:        origin,
		Destination:   routeDestination,
		Mode:          req.Mode,
		Alternatives:  true,
		AvoidTolls:    req.AvoidTolls,
		AvoidHighways: req.AvoidHighways,
	})
	if err != nil {
		logger.WarnContext(ctx, "directions request failed", zap.Error(err))
		return &CalculateResult{
			Status:  StatusError,
			Message: maps.StatusMessage(maps.StatusUnknownError),
		}
	}
	if resp.Status != maps.StatusOK || len(resp.Routes) == 0 {
		return &CalculateResult{
			Status:  StatusError,
			Message: maps.StatusMessage(resp.Status),
		}
	}

	results := scoreAlternatives(resp.Routes)

	if userID != nil {
		s.persistAsync(*userID, req.Origin, routeDestination, results)
	}
	if s.analytics != nil {
		s.analytics.Record(ctx, userID, analytics.EventRouteSearch, map[string]interface{}{
			"destination":  routeDestination,
			"alternatives": len(results),
		})
	}

	return &CalculateResult{Status: StatusOK, Routes: results}
}

// scoreAlternatives converts provider routes to display units, classifies
// each, marks the recommendation, and back-fills savings. Provider order
// is preserved; the first alternative is recommended unless it is severe,
// in which case no route is recommended.
func scoreAlternatives(alternatives []maps.Route) []RouteResult {
	results := make([]RouteResult, 0, len(alternatives))
	for _, alt := range alternatives {
		durationMinutes := float64(alt.DurationSeconds) / 60
		trafficMinutes := durationMinutes
		if alt.DurationInTrafficSeconds > 0 {
			trafficMinutes = float64(alt.DurationInTrafficSeconds) / 60
		}
		delayMinutes := math.Max(0, trafficMinutes-durationMinutes)

		severity := traffic.ClassifyDelay(delayMinutes, durationMinutes)

		results = append(results, RouteResult{
			ID:                       uuid.New().String(),
			Summary:                  alt.Summary,
			Description:              describeRoute(alt.Summary, severity),
			DistanceMiles:            round1(geo.MetersToMiles(float64(alt.DistanceMeters))),
			DurationMinutes:          round1(durationMinutes),
			DurationInTrafficMinutes: round1(trafficMinutes),
			DelayMinutes:             round1(delayMinutes),
			TrafficLevel:             severity,
			Waypoints:                extractWaypoints(alt.Summary),
			EncodedPolyline:          alt.EncodedPolyline,
		})
	}

	if len(results) > 0 && results[0].TrafficLevel != traffic.SeveritySevere {
		results[0].Recommended = true

		if len(results) > 1 {
			fastestOther := math.Inf(1)
			for _, r := range results[1:] {
				if r.DurationInTrafficMinutes < fastestOther {
					fastestOther = r.DurationInTrafficMinutes
				}
			}
			if savings := round1(fastestOther - results[0].DurationInTrafficMinutes); savings > 0 {
				results[0].SavingsMinutes = &savings
			}
		}
	}

	return results
}

// extractWaypoints splits a route summary like "I-280 N and US-101 S" into
// display waypoints. A display heuristic only.
func extractWaypoints(summary string) []string {
	if summary == "" {
		return nil
	}

	parts := strings.Split(summary, " and ")
	waypoints := make([]string, 0, maxWaypoints)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		waypoints = append(waypoints, part)
		if len(waypoints) >= maxWaypoints {
			break
		}
	}
	return waypoints
}

func describeRoute(summary string, severity traffic.Severity) string {
	if summary == "" {
		summary = "this route"
	}
	switch severity {
	case traffic.SeveritySevere:
		return fmt.Sprintf("Severe congestion via %s", summary)
	case traffic.SeverityHigh:
		return fmt.Sprintf("Heavy traffic via %s", summary)
	case traffic.SeverityModerate:
		return fmt.Sprintf("Some traffic via %s", summary)
	default:
		return fmt.Sprintf("Clear conditions via %s", summary)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// persistAsync saves the whole batch for the user without blocking the
// response. Failures are logged and swallowed.
func (s *Service) persistAsync(userID uuid.UUID, origin Coordinate, destination string, results []RouteResult) {
	if s.repo == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.repo.SaveBatch(ctx, userID, destination, origin, results); err != nil {
			logger.Warn("route batch persist failed",
				zap.String("user_id", userID.String()), zap.Error(err))
			return
		}
		if s.bus != nil {
			s.bus.Publish(eventbus.SubjectRouteSaved, map[string]interface{}{
				"user_id":     userID.String(),
				"destination": destination,
				"count":       len(results),
			})
		}
	}()
}

// GetSavedRoutes returns the user's saved routes, newest first.
func (s *Service) GetSavedRoutes(ctx context.Context, userID uuid.UUID) ([]*SavedRoute, error) {
	return s.repo.GetByUser(ctx, userID)
}

// DeleteSavedRoute removes one saved route owned by the user.
func (s *Service) DeleteSavedRoute(ctx context.Context, userID, routeID uuid.UUID) error {
	return s.repo.Delete(ctx, userID, routeID)
}
