package traffic

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadpulse/roadpulse/pkg/geo"
)

// Repository persists traffic conditions in Postgres. Radius filtering is
// done in Go with a haversine check over a coarse bounding box, no
// spatial extension required.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new traffic repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// degreesPerMileLat approximates one mile of latitude in degrees. Good
// enough for a pre-filter box; the haversine check does the real work.
const degreesPerMileLat = 1.0 / 69.0

// GetRecentNear returns conditions created after since within radiusMiles
// of the given point.
func (r *Repository) GetRecentNear(ctx context.Context, lat, lng, radiusMiles float64, since time.Time) ([]*TrafficCondition, error) {
	boxDegrees := radiusMiles * degreesPerMileLat * 2

	rows, err := r.pool.Query(ctx, `
		SELECT id, latitude, longitude, address, severity, speed_mph,
		       duration_minutes, predicted_duration_minutes, confidence,
		       affected_routes, cause, description, created_at
		FROM traffic_conditions
		WHERE created_at > $1
		  AND latitude BETWEEN $2 AND $3
		  AND longitude BETWEEN $4 AND $5
		ORDER BY created_at DESC
		LIMIT 50`,
		since, lat-boxDegrees, lat+boxDegrees, lng-boxDegrees, lng+boxDegrees)
	if err != nil {
		return nil, fmt.Errorf("failed to query traffic conditions: %w", err)
	}
	defer rows.Close()

	var conditions []*TrafficCondition
	for rows.Next() {
		c := &TrafficCondition{}
		err := rows.Scan(&c.ID, &c.Location.Latitude, &c.Location.Longitude,
			&c.Location.Address, &c.Severity, &c.SpeedMph,
			&c.DurationMinutes, &c.PredictedDurationMinutes, &c.Confidence,
			&c.AffectedRoutes, &c.Cause, &c.Description, &c.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan traffic condition: %w", err)
		}

		distance := geo.HaversineMiles(lat, lng, c.Location.Latitude, c.Location.Longitude)
		if distance <= radiusMiles {
			conditions = append(conditions, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read traffic conditions: %w", err)
	}

	return conditions, nil
}

// SaveBatch inserts a batch of conditions. Conflicting IDs are updated in
// place so a re-derived condition refreshes its timestamp.
func (r *Repository) SaveBatch(ctx context.Context, conditions []*TrafficCondition) error {
	for _, c := range conditions {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO traffic_conditions
				(id, latitude, longitude, address, severity, speed_mph,
				 duration_minutes, predicted_duration_minutes, confidence,
				 affected_routes, cause, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id) DO UPDATE SET
				severity = EXCLUDED.severity,
				speed_mph = EXCLUDED.speed_mph,
				duration_minutes = EXCLUDED.duration_minutes,
				predicted_duration_minutes = EXCLUDED.predicted_duration_minutes,
				created_at = EXCLUDED.created_at`,
			c.ID, c.Location.Latitude, c.Location.Longitude, c.Location.Address,
			c.Severity, c.SpeedMph, c.DurationMinutes, c.PredictedDurationMinutes,
			c.Confidence, c.AffectedRoutes, c.Cause, c.Description, c.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to save traffic condition %s: %w", c.ID, err)
		}
	}

	return nil
}
