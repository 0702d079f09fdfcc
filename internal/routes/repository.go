package routes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadpulse/roadpulse/pkg/common"
)

// Repository persists saved routes in Postgres, scoped per user.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new routes repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// newSavedRoute projects a scored result onto the persisted row. The
// scoring fields must survive the round trip unchanged.
func newSavedRoute(userID uuid.UUID, destination string, origin Coordinate, result RouteResult) *SavedRoute {
	return &SavedRoute{
		ID:                       uuid.New(),
		UserID:                   userID,
		Summary:                  result.Summary,
		OriginLatitude:           origin.Latitude,
		OriginLongitude:          origin.Longitude,
		Destination:              destination,
		DistanceMiles:            result.DistanceMiles,
		DurationMinutes:          result.DurationMinutes,
		DurationInTrafficMinutes: result.DurationInTrafficMinutes,
		TrafficLevel:             result.TrafficLevel,
		Waypoints:                result.Waypoints,
	}
}

// SaveBatch inserts every route of a comparison batch for the user.
func (r *Repository) SaveBatch(ctx context.Context, userID uuid.UUID, destination string, origin Coordinate, results []RouteResult) error {
	for _, result := range results {
		route := newSavedRoute(userID, destination, origin, result)
		_, err := r.pool.Exec(ctx, `
			INSERT INTO saved_routes
				(id, user_id, summary, origin_latitude, origin_longitude,
				 destination, distance_miles, duration_minutes,
				 duration_in_traffic_minutes, traffic_level, waypoints, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`,
			route.ID, route.UserID, route.Summary, route.OriginLatitude,
			route.OriginLongitude, route.Destination, route.DistanceMiles,
			route.DurationMinutes, route.DurationInTrafficMinutes,
			route.TrafficLevel, route.Waypoints)
		if err != nil {
			return fmt.Errorf("failed to save route: %w", err)
		}
	}

	return nil
}

// GetByUser returns the user's saved routes, newest first.
func (r *Repository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*SavedRoute, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, summary, origin_latitude, origin_longitude,
		       destination, distance_miles, duration_minutes,
		       duration_in_traffic_minutes, traffic_level, waypoints, created_at
		FROM saved_routes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved routes: %w", err)
	}
	defer rows.Close()

	var routes []*SavedRoute
	for rows.Next() {
		route := &SavedRoute{}
		err := rows.Scan(&route.ID, &route.UserID, &route.Summary,
			&route.OriginLatitude, &route.OriginLongitude, &route.Destination,
			&route.DistanceMiles, &route.DurationMinutes,
			&route.DurationInTrafficMinutes, &route.TrafficLevel,
			&route.Waypoints, &route.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved route: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saved routes: %w", err)
	}

	return routes, nil
}

// Delete removes a saved route if it belongs to the user.
func (r *Repository) Delete(ctx context.Context, userID, routeID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM saved_routes WHERE id = $1 AND user_id = $2`, routeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("route not found", common.ErrNotFound)
	}

	return nil
}
