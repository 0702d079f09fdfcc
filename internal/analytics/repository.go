package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores analytics events in Postgres. Insert-only; events are
// never updated or deleted by the application.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new analytics repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one event row.
func (r *Repository) Insert(ctx context.Context, event *Event) error {
	var payload []byte
	if event.Payload != nil {
		var err error
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO route_analytics (id, user_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.UserID, event.EventType, payload, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}

	return nil
}

// SummaryForUser aggregates event counts and activity bounds for a user.
func (r *Repository) SummaryForUser(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT event_type, COUNT(*), MIN(created_at), MAX(created_at)
		FROM route_analytics
		WHERE user_id = $1
		GROUP BY event_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics summary: %w", err)
	}
	defer rows.Close()

	summary := &Summary{CountsByType: make(map[string]int)}
	for rows.Next() {
		var (
			eventType    string
			count        int
			minAt, maxAt *time.Time
		)
		if err := rows.Scan(&eventType, &count, &minAt, &maxAt); err != nil {
			return nil, fmt.Errorf("failed to scan analytics summary: %w", err)
		}

		summary.CountsByType[eventType] = count
		summary.TotalEvents += count
		if minAt != nil && (summary.FirstActivity == nil || minAt.Before(*summary.FirstActivity)) {
			summary.FirstActivity = minAt
		}
		if maxAt != nil && (summary.LastActivity == nil || maxAt.After(*summary.LastActivity)) {
			summary.LastActivity = maxAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analytics summary: %w", err)
	}

	return summary, nil
}
