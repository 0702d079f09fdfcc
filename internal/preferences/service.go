package preferences

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/pkg/eventbus"
)

// ErrNotFound is returned by the repository when a user has no saved row.
var ErrNotFound = errors.New("preferences not found")

// RepositoryInterface defines the persistence operations needed by the service.
type RepositoryInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserPreferences, error)
	Upsert(ctx context.Context, prefs *UserPreferences) error
}

// Publisher notifies subscribers of preference changes.
type Publisher interface {
	Publish(subject string, data interface{})
}

// Service manages per-user dashboard preferences.
type Service struct {
	repo RepositoryInterface
	bus  Publisher
}

// NewService creates a new preferences service
func NewService(repo RepositoryInterface, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// Get returns the user's preferences, falling back to defaults when the
// user has never saved any.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*UserPreferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// Update replaces the user's preferences. Omitted fields take defaults so
// a partial payload cannot leave the row in a mixed state.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*UserPreferences, error) {
	prefs := &UserPreferences{
		UserID:                   userID,
		DefaultTravelMode:        req.DefaultTravelMode,
		AvoidTolls:               req.AvoidTolls,
		AvoidHighways:            req.AvoidHighways,
		Units:                    req.Units,
		TrafficRefreshSeconds:    req.TrafficRefreshSeconds,
		PredictionRefreshSeconds: req.PredictionRefreshSeconds,
		HomeLocation:             req.HomeLocation,
		WorkLocation:             req.WorkLocation,
	}

	defaults := DefaultPreferences(userID)
	if prefs.DefaultTravelMode == "" {
		prefs.DefaultTravelMode = defaults.DefaultTravelMode
	}
	if prefs.DefaultTravelMode != maps.ModeDriving && prefs.DefaultTravelMode != maps.ModeWalking &&
		prefs.DefaultTravelMode != maps.ModeTransit && prefs.DefaultTravelMode != maps.ModeBicycling {
		return nil, errors.New("invalid travel mode")
	}
	if prefs.Units == "" {
		prefs.Units = defaults.Units
	}
	if prefs.TrafficRefreshSeconds == 0 {
		prefs.TrafficRefreshSeconds = defaults.TrafficRefreshSeconds
	}
	if prefs.PredictionRefreshSeconds == 0 {
		prefs.PredictionRefreshSeconds = defaults.PredictionRefreshSeconds
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.SubjectPreferencesUpdated, map[string]interface{}{
			"user_id": userID.String(),
		})
	}

	return prefs, nil
}
