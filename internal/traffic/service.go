package traffic

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/pkg/eventbus"
	"github.com/roadpulse/roadpulse/pkg/geo"
	"github.com/roadpulse/roadpulse/pkg/logger"
)

const (
	// Place categories sampled around the center to infer congestion.
	// These are the kinds of destinations people actually drive to.
	maxCandidatePlaces  = 8
	maxDirectionsCalls  = 5
	targetConditions    = 3
	defaultFetchTimeout = 30 * time.Second
)

var placeCategories = []string{
	"shopping_mall",
	"hospital",
	"school",
	"bank",
	"restaurant",
	"local_government_office",
}

// Service derives traffic conditions around a point by sampling
// directions to nearby places, with a cached read-through and an
// hour-of-day simulation fallback.
type Service struct {
	maps         MapsAPI
	repo         RepositoryInterface
	bus          Publisher
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewService creates a new traffic derivation service. A non-positive
// fetchTimeout falls back to the default.
func NewService(mapsAPI MapsAPI, repo RepositoryInterface, bus Publisher, fetchTimeout time.Duration) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Service{
		maps:         mapsAPI,
		repo:         repo,
		bus:          bus,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// GetCurrentConditions returns traffic conditions within radiusMiles of
// center. It never returns an error: every failure path degrades to fewer
// results, the simulation fallback, or an empty list.
func (s *Service) GetCurrentConditions(ctx context.Context, center Location, radiusMiles float64) []*TrafficCondition {
	if s.maps == nil || !s.maps.Ready() {
		return []*TrafficCondition{}
	}

	if radiusMiles <= 0 {
		radiusMiles = 5
	}

	// Cache read-through: only fresh, real-provenance entries qualify.
	// Simulated entries are never served from cache.
	if s.repo != nil {
		cached, err := s.repo.GetRecentNear(ctx, center.Latitude, center.Longitude, radiusMiles, s.now().Add(-CacheFreshness))
		if err != nil {
			logger.WarnContext(ctx, "traffic cache read failed", zap.Error(err))
		} else if usable := s.usableFromCache(cached); len(usable) > 0 {
			return usable
		}
	}

	// Bound the live fetch; on timeout the in-flight provider calls are
	// abandoned and we fall through to the simulation.
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	conditions := s.fetchLiveConditions(fetchCtx, center, radiusMiles)
	if len(conditions) > 0 {
		s.persistAsync(conditions)
		return conditions
	}

	return s.simulateConditions(ctx, center)
}

// usableFromCache keeps entries that are both recent and real.
func (s *Service) usableFromCache(cached []*TrafficCondition) []*TrafficCondition {
	cutoff := s.now().Add(-CacheFreshness)
	usable := make([]*TrafficCondition, 0, len(cached))
	for _, c := range cached {
		if c.IsReal() && c.Timestamp.After(cutoff) {
			usable = append(usable, c)
		}
	}
	return usable
}

// fetchLiveConditions samples nearby places and derives conditions from
// traffic-aware directions to each. Every provider call is individually
// guarded; failures shrink the result set instead of propagating.
func (s *Service) fetchLiveConditions(ctx context.Context, center Location, radiusMiles float64) []*TrafficCondition {
	regionName := "the area"
	if geocoded, err := s.maps.ReverseGeocode(ctx, maps.Coordinate{Latitude: center.Latitude, Longitude: center.Longitude}); err == nil && geocoded.Address != "" {
		regionName = geocoded.Address
	}

	candidates := s.findCandidatePlaces(ctx, center, radiusMiles)

	conditions := make([]*TrafficCondition, 0, targetConditions)
	attempts := 0
	for _, place := range candidates {
		if attempts >= maxDirectionsCalls || len(conditions) >= targetConditions {
			break
		}
		if ctx.Err() != nil {
			break
		}
		attempts++

		condition := s.deriveCondition(ctx, center, place, regionName)
		if condition != nil {
			conditions = append(conditions, condition)
		}
	}

	return conditions
}

// findCandidatePlaces issues the category searches concurrently, merges
// and de-duplicates the results, filters them to the radius, and caps the
// candidate set.
func (s *Service) findCandidatePlaces(ctx context.Context, center Location, radiusMiles float64) []maps.Place {
	radiusMeters := int(geo.MilesToKm(radiusMiles) * 1000)

	var mu sync.Mutex
	var merged []maps.Place

	var wg sync.WaitGroup
	for _, category := range placeCategories {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			resp, err := s.maps.SearchNearby(ctx, maps.Coordinate{Latitude: center.Latitude, Longitude: center.Longitude}, radiusMeters, category)
			if err != nil {
				logger.Debug("place search failed", zap.String("category", category), zap.Error(err))
				return
			}
			mu.Lock()
			merged = append(merged, resp.Results...)
			mu.Unlock()
		}(category)
	}
	wg.Wait()

	seen := make(map[string]bool, len(merged))
	candidates := make([]maps.Place, 0, maxCandidatePlaces)
	for _, place := range merged {
		if place.ID == "" || seen[place.ID] {
			continue
		}
		seen[place.ID] = true

		distance := geo.HaversineMiles(center.Latitude, center.Longitude, place.Location.Latitude, place.Location.Longitude)
		if distance > radiusMiles {
			continue
		}

		candidates = append(candidates, place)
		if len(candidates) >= maxCandidatePlaces {
			break
		}
	}

	return candidates
}

// deriveCondition requests traffic-aware directions from the center to a
// candidate place and turns the result into a condition. Directions go to
// the place's address, never raw coordinates — addresses yield better
// provider results.
func (s *Service) deriveCondition(ctx context.Context, center Location, place maps.Place, regionName string) *TrafficCondition {
	destination := place.Address
	if destination == "" {
		destination = place.Name
	}
	if destination == "" {
		return nil
	}

	resp, err := s.maps.GetRoute(ctx, &maps.RouteRequest{
		Origin:      maps.Coordinate{Latitude: center.Latitude, Longitude: center.Longitude},
		Destination: destination,
	})
	if err != nil {
		logger.Debug("directions sample failed", zap.String("place", place.Name), zap.Error(err))
		return nil
	}
	if resp.Status != maps.StatusOK || len(resp.Routes) == 0 {
		return nil
	}

	route := resp.Routes[0]
	if route.DurationInTrafficSeconds <= 0 || route.DurationSeconds <= 0 {
		return nil
	}

	baseMinutes := float64(route.DurationSeconds) / 60
	trafficMinutes := float64(route.DurationInTrafficSeconds) / 60
	delayMinutes := math.Max(0, trafficMinutes-baseMinutes)

	severity := ClassifyDelay(delayMinutes, baseMinutes)

	distanceMiles := geo.MetersToMiles(float64(route.DistanceMeters))
	speedMph := 0.0
	if trafficMinutes > 0 {
		speedMph = distanceMiles / (trafficMinutes / 60)
	}

	return &TrafficCondition{
		ID: RealConditionPrefix + uuid.New().String(),
		Location: Location{
			Latitude:  place.Location.Latitude,
			Longitude: place.Location.Longitude,
			Address:   place.Address,
		},
		Severity:                 severity,
		SpeedMph:                 math.Round(speedMph*10) / 10,
		DurationMinutes:          math.Round(baseMinutes*10) / 10,
		PredictedDurationMinutes: math.Round(trafficMinutes*10) / 10,
		Confidence:               RealDataConfidence,
		Timestamp:                s.now(),
		AffectedRoutes:           []string{place.Name},
		Cause:                    causeFor(severity),
		Description:              fmt.Sprintf("Traffic toward %s in %s: %.0f min delay", place.Name, regionName, delayMinutes),
	}
}

// persistAsync caches conditions and publishes the update without
// blocking the caller. Persistence is best-effort by design.
func (s *Service) persistAsync(conditions []*TrafficCondition) {
	if s.repo == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.repo.SaveBatch(ctx, conditions); err != nil {
			logger.Warn("traffic condition cache write failed", zap.Error(err))
			return
		}
		if s.bus != nil {
			s.bus.Publish(eventbus.SubjectTrafficConditionsUpdated, conditions)
		}
	}()
}
