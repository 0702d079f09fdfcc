package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/logger"
	"github.com/roadpulse/roadpulse/pkg/redis"
)

// SessionLocationTTL is how long a cached session location stays valid.
const SessionLocationTTL = 24 * time.Hour

// Geocoder resolves a coordinate to a display address.
type Geocoder interface {
	Ready() bool
	ReverseGeocode(ctx context.Context, location maps.Coordinate) (*maps.GeocodeResult, error)
}

// Service keeps each dashboard session's last-known location in Redis and
// resolves coordinates to region names.
type Service struct {
	cache    redis.ClientInterface
	geocoder Geocoder
	now      func() time.Time
}

// NewService creates a new geolocation service
func NewService(cache redis.ClientInterface, geocoder Geocoder) *Service {
	return &Service{cache: cache, geocoder: geocoder, now: time.Now}
}

func sessionKey(sessionID string) string {
	return "session:location:" + sessionID
}

// SaveLocation stores the session's location with the standard TTL.
func (s *Service) SaveLocation(ctx context.Context, sessionID string, loc traffic.Location) (*SessionLocation, error) {
	entry := &SessionLocation{
		Location:  loc,
		Timestamp: s.now(),
		SessionID: sessionID,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session location: %w", err)
	}

	if err := s.cache.SetWithExpiration(ctx, sessionKey(sessionID), data, SessionLocationTTL); err != nil {
		return nil, fmt.Errorf("failed to store session location: %w", err)
	}

	return entry, nil
}

// GetLocation returns the session's cached location, or nil when the
// session has none (or the entry expired).
func (s *Service) GetLocation(ctx context.Context, sessionID string) (*SessionLocation, error) {
	raw, err := s.cache.GetString(ctx, sessionKey(sessionID))
	if err != nil {
		// Redis returns a miss as an error; treat every read failure as
		// a miss since the cache is best-effort.
		return nil, nil
	}

	var entry SessionLocation
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logger.WarnContext(ctx, "corrupt session location entry, dropping",
			zap.String("session_id", sessionID), zap.Error(err))
		_ = s.cache.Delete(ctx, sessionKey(sessionID))
		return nil, nil
	}

	// Belt and braces next to the Redis TTL: never serve an entry older
	// than the expiry window.
	if s.now().Sub(entry.Timestamp) > SessionLocationTTL {
		return nil, nil
	}

	return &entry, nil
}

// continentBox is a rough bounding box used when reverse geocoding is
// unavailable.
type continentBox struct {
	name           string
	minLat, maxLat float64
	minLng, maxLng float64
}

var continentBoxes = []continentBox{
	{"North America", 15, 72, -168, -52},
	{"South America", -56, 13, -82, -34},
	{"Europe", 36, 71, -10, 40},
	{"Africa", -35, 37, -18, 52},
	{"Asia", 5, 78, 40, 180},
	{"Oceania", -47, 0, 110, 180},
}

// ResolveRegion turns a coordinate into a human-readable region name.
// Reverse geocoding is tried first; on any failure the continent bounding
// boxes provide a coarse answer.
func (s *Service) ResolveRegion(ctx context.Context, lat, lng float64) string {
	if s.geocoder != nil && s.geocoder.Ready() {
		result, err := s.geocoder.ReverseGeocode(ctx, maps.Coordinate{Latitude: lat, Longitude: lng})
		if err == nil && result.Address != "" {
			return result.Address
		}
		if err != nil {
			logger.Debug("reverse geocode failed, using continent fallback", zap.Error(err))
		}
	}

	for _, box := range continentBoxes {
		if lat >= box.minLat && lat <= box.maxLat && lng >= box.minLng && lng <= box.maxLng {
			return box.name
		}
	}
	return "Unknown Region"
}
