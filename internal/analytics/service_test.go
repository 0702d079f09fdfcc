package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Insert(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockRepository) SummaryForUser(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Summary), args.Error(1)
}

func TestRecordWritesInBackground(t *testing.T) {
	inserted := make(chan *Event, 1)

	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted <- args.Get(1).(*Event)
		}).Return(nil)

	svc := NewService(repo)
	userID := uuid.New()

	svc.Record(context.Background(), &userID, EventTrafficViewed, map[string]interface{}{
		"radius_miles": 5,
	})

	select {
	case event := <-inserted:
		assert.Equal(t, EventTrafficViewed, event.EventType)
		require.NotNil(t, event.UserID)
		assert.Equal(t, userID, *event.UserID)
		assert.NotEqual(t, uuid.Nil, event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the event to be inserted")
	}
}

func TestRecordSwallowsInsertFailure(t *testing.T) {
	done := make(chan struct{}, 1)

	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { done <- struct{}{} }).
		Return(assert.AnError)

	svc := NewService(repo)

	// Anonymous event; the failure must not surface to the caller.
	svc.Record(context.Background(), nil, EventRouteSearch, nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the insert to be attempted")
	}
}

func TestRecordSync(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo)
	userID := uuid.New()

	event, err := svc.RecordSync(context.Background(), &userID, RecordRequest{
		EventType: EventRouteSaved,
		Payload:   map[string]interface{}{"destination": "Oakland, CA"},
	})

	require.NoError(t, err)
	assert.Equal(t, EventRouteSaved, event.EventType)
	assert.Equal(t, "Oakland, CA", event.Payload["destination"])
}

func TestRecordSyncPropagatesFailure(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(repo)

	event, err := svc.RecordSync(context.Background(), nil, RecordRequest{
		EventType: EventInsightRequested,
	})

	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestSummaryForUser(t *testing.T) {
	userID := uuid.New()
	first := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	repo := new(mockRepository)
	repo.On("SummaryForUser", mock.Anything, userID).Return(&Summary{
		TotalEvents:   7,
		CountsByType:  map[string]int{EventRouteSearch: 5, EventRouteSaved: 2},
		FirstActivity: &first,
		LastActivity:  &last,
	}, nil)

	svc := NewService(repo)

	summary, err := svc.SummaryForUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalEvents)
	assert.Equal(t, 5, summary.CountsByType[EventRouteSearch])
}
