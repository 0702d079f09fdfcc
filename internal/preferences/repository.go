package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

// Repository persists user preferences in Postgres, one row per user.
// Home and work locations are stored as JSONB.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new preferences repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the user's preferences row, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*UserPreferences, error) {
	prefs := &UserPreferences{}
	var homeJSON, workJSON []byte

	err := r.pool.QueryRow(ctx, `
		SELECT user_id, default_travel_mode, avoid_tolls, avoid_highways,
		       units, traffic_refresh_seconds, prediction_refresh_seconds,
		       home_location, work_location, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID).
		Scan(&prefs.UserID, &prefs.DefaultTravelMode, &prefs.AvoidTolls,
			&prefs.AvoidHighways, &prefs.Units, &prefs.TrafficRefreshSeconds,
			&prefs.PredictionRefreshSeconds, &homeJSON, &workJSON, &prefs.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	if prefs.HomeLocation, err = unmarshalLocation(homeJSON); err != nil {
		return nil, err
	}
	if prefs.WorkLocation, err = unmarshalLocation(workJSON); err != nil {
		return nil, err
	}

	return prefs, nil
}

// Upsert inserts or replaces the user's preferences row.
func (r *Repository) Upsert(ctx context.Context, prefs *UserPreferences) error {
	homeJSON, err := marshalLocation(prefs.HomeLocation)
	if err != nil {
		return err
	}
	workJSON, err := marshalLocation(prefs.WorkLocation)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_preferences
			(user_id, default_travel_mode, avoid_tolls, avoid_highways,
			 units, traffic_refresh_seconds, prediction_refresh_seconds,
			 home_location, work_location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			default_travel_mode = EXCLUDED.default_travel_mode,
			avoid_tolls = EXCLUDED.avoid_tolls,
			avoid_highways = EXCLUDED.avoid_highways,
			units = EXCLUDED.units,
			traffic_refresh_seconds = EXCLUDED.traffic_refresh_seconds,
			prediction_refresh_seconds = EXCLUDED.prediction_refresh_seconds,
			home_location = EXCLUDED.home_location,
			work_location = EXCLUDED.work_location,
			updated_at = NOW()`,
		prefs.UserID, prefs.DefaultTravelMode, prefs.AvoidTolls,
		prefs.AvoidHighways, prefs.Units, prefs.TrafficRefreshSeconds,
		prefs.PredictionRefreshSeconds, homeJSON, workJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}

func marshalLocation(loc *traffic.Location) ([]byte, error) {
	if loc == nil {
		return nil, nil
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location: %w", err)
	}
	return data, nil
}

func unmarshalLocation(data []byte) (*traffic.Location, error) {
	if len(data) == 0 {
		return nil, nil
	}
	loc := &traffic.Location{}
	if err := json.Unmarshal(data, loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %w", err)
	}
	return loc, nil
}
