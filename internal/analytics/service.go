package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/pkg/logger"
)

// RepositoryInterface defines the persistence operations needed by the service.
type RepositoryInterface interface {
	Insert(ctx context.Context, event *Event) error
	SummaryForUser(ctx context.Context, userID uuid.UUID) (*Summary, error)
}

// Service records usage events. Recording is always best-effort: a lost
// event must never affect the operation that produced it.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new analytics service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Record writes a usage event in the background. Satisfies the recorder
// interfaces of the other services.
func (s *Service) Record(ctx context.Context, userID *uuid.UUID, eventType string, payload map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	event := &Event{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	go func() {
		insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.Insert(insertCtx, event); err != nil {
			logger.Warn("analytics event insert failed",
				zap.String("event_type", eventType), zap.Error(err))
		}
	}()
}

// RecordSync writes a usage event and reports the error, for the API
// endpoint where the caller explicitly asked to record.
func (s *Service) RecordSync(ctx context.Context, userID *uuid.UUID, req RecordRequest) (*Event, error) {
	event := &Event{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: req.EventType,
		Payload:   req.Payload,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// SummaryForUser aggregates the user's recorded activity.
func (s *Service) SummaryForUser(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	return s.repo.SummaryForUser(ctx, userID)
}
