package traffic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadpulse/roadpulse/internal/maps"
)

type mockMapsAPI struct {
	mock.Mock
}

func (m *mockMapsAPI) Ready() bool {
	return m.Called().Bool(0)
}

func (m *mockMapsAPI) GetRoute(ctx context.Context, req *maps.RouteRequest) (*maps.RouteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maps.RouteResponse), args.Error(1)
}

func (m *mockMapsAPI) SearchNearby(ctx context.Context, location maps.Coordinate, radiusMeters int, category string) (*maps.PlaceSearchResponse, error) {
	args := m.Called(ctx, location, radiusMeters, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maps.PlaceSearchResponse), args.Error(1)
}

func (m *mockMapsAPI) ReverseGeocode(ctx context.Context, location maps.Coordinate) (*maps.GeocodeResult, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maps.GeocodeResult), args.Error(1)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetRecentNear(ctx context.Context, lat, lng, radiusMiles float64, since time.Time) ([]*TrafficCondition, error) {
	args := m.Called(ctx, lat, lng, radiusMiles, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*TrafficCondition), args.Error(1)
}

func (m *mockRepository) SaveBatch(ctx context.Context, conditions []*TrafficCondition) error {
	args := m.Called(ctx, conditions)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data interface{}) {
	m.Called(subject, data)
}

var testCenter = Location{Latitude: 37.7749, Longitude: -122.4194}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetCurrentConditionsProviderNotReady(t *testing.T) {
	mapsAPI := new(mockMapsAPI)
	mapsAPI.On("Ready").Return(false)

	svc := NewService(mapsAPI, nil, nil, 0)

	conditions := svc.GetCurrentConditions(context.Background(), testCenter, 5)

	assert.Empty(t, conditions)
	mapsAPI.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCurrentConditionsCacheAcceptance(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cached    *TrafficCondition
		fromCache bool
	}{
		{
			name: "fresh real condition is served from cache",
			cached: &TrafficCondition{
				ID:        "real-traffic-123",
				Location:  testCenter,
				Severity:  SeverityModerate,
				Timestamp: now.Add(-4 * time.Minute),
			},
			fromCache: true,
		},
		{
			name: "fresh simulated condition is regenerated",
			cached: &TrafficCondition{
				ID:        "simulation-456",
				Location:  testCenter,
				Severity:  SeverityModerate,
				Timestamp: now.Add(-4 * time.Minute),
			},
			fromCache: false,
		},
		{
			name: "stale real condition is regenerated",
			cached: &TrafficCondition{
				ID:        "real-traffic-789",
				Location:  testCenter,
				Severity:  SeverityModerate,
				Timestamp: now.Add(-6 * time.Minute),
			},
			fromCache: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapsAPI := new(mockMapsAPI)
			mapsAPI.On("Ready").Return(true)
			mapsAPI.On("ReverseGeocode", mock.Anything, mock.Anything).Return(nil, assert.AnError).Maybe()
			mapsAPI.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(&maps.PlaceSearchResponse{Status: maps.StatusZeroResults}, nil).Maybe()

			repo := new(mockRepository)
			repo.On("GetRecentNear", mock.Anything, testCenter.Latitude, testCenter.Longitude, 5.0, mock.Anything).
				Return([]*TrafficCondition{tt.cached}, nil)

			svc := NewService(mapsAPI, repo, nil, 0)
			svc.now = fixedClock(now)

			conditions := svc.GetCurrentConditions(context.Background(), testCenter, 5)

			require.NotEmpty(t, conditions)
			if tt.fromCache {
				assert.Equal(t, tt.cached.ID, conditions[0].ID)
			} else {
				// Live fetch found nothing, so these are simulated.
				for _, c := range conditions {
					assert.False(t, c.IsReal())
					assert.Equal(t, SimulatedDataConfidence, c.Confidence)
				}
			}
		})
	}
}

func TestGetCurrentConditionsLiveFetch(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	place := maps.Place{
		ID:      "place-1",
		Name:    "Westfield Mall",
		Address: "865 Market St, San Francisco, CA",
		Location: maps.Coordinate{
			Latitude:  testCenter.Latitude + 0.01,
			Longitude: testCenter.Longitude + 0.01,
		},
	}

	mapsAPI := new(mockMapsAPI)
	mapsAPI.On("Ready").Return(true)
	mapsAPI.On("ReverseGeocode", mock.Anything, mock.Anything).
		Return(&maps.GeocodeResult{Address: "San Francisco, CA"}, nil)
	mapsAPI.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, "shopping_mall").
		Return(&maps.PlaceSearchResponse{Status: maps.StatusOK, Results: []maps.Place{place}}, nil)
	mapsAPI.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&maps.PlaceSearchResponse{Status: maps.StatusZeroResults}, nil)
	// 20 min base, 30 min in traffic: a 50 percent delay classifies severe.
	mapsAPI.On("GetRoute", mock.Anything, mock.MatchedBy(func(req *maps.RouteRequest) bool {
		return req.Destination == place.Address
	})).Return(&maps.RouteResponse{
		Status: maps.StatusOK,
		Routes: []maps.Route{{
			Summary:                  "Market St",
			DistanceMeters:           8000,
			DurationSeconds:          1200,
			DurationInTrafficSeconds: 1800,
		}},
	}, nil)

	saved := make(chan []*TrafficCondition, 1)
	repo := new(mockRepository)
	repo.On("GetRecentNear", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*TrafficCondition{}, nil)
	repo.On("SaveBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved <- args.Get(1).([]*TrafficCondition)
		}).Return(nil)

	published := make(chan string, 1)
	bus := new(mockPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published <- args.String(0)
		})

	svc := NewService(mapsAPI, repo, bus, 0)
	svc.now = fixedClock(now)

	conditions := svc.GetCurrentConditions(context.Background(), testCenter, 5)

	require.Len(t, conditions, 1)
	c := conditions[0]
	assert.True(t, c.IsReal())
	assert.Equal(t, SeveritySevere, c.Severity)
	assert.Equal(t, RealDataConfidence, c.Confidence)
	assert.Equal(t, 20.0, c.DurationMinutes)
	assert.Equal(t, 30.0, c.PredictedDurationMinutes)
	assert.Equal(t, place.Address, c.Location.Address)

	select {
	case batch := <-saved:
		assert.Len(t, batch, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("expected conditions to be persisted")
	}
	select {
	case subject := <-published:
		assert.Equal(t, "traffic.conditions.updated", subject)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a publish after persist")
	}
}

func TestGetCurrentConditionsPersistFailureDoesNotAffectResult(t *testing.T) {
	place := maps.Place{
		ID:       "place-1",
		Name:     "City Hospital",
		Address:  "1 Hospital Way",
		Location: maps.Coordinate{Latitude: testCenter.Latitude, Longitude: testCenter.Longitude},
	}

	mapsAPI := new(mockMapsAPI)
	mapsAPI.On("Ready").Return(true)
	mapsAPI.On("ReverseGeocode", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	mapsAPI.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, "hospital").
		Return(&maps.PlaceSearchResponse{Status: maps.StatusOK, Results: []maps.Place{place}}, nil)
	mapsAPI.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&maps.PlaceSearchResponse{Status: maps.StatusZeroResults}, nil)
	mapsAPI.On("GetRoute", mock.Anything, mock.Anything).Return(&maps.RouteResponse{
		Status: maps.StatusOK,
		Routes: []maps.Route{{DistanceMeters: 5000, DurationSeconds: 600, DurationInTrafficSeconds: 660}},
	}, nil)

	failed := make(chan struct{}, 1)
	repo := new(mockRepository)
	repo.On("GetRecentNear", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*TrafficCondition{}, nil)
	repo.On("SaveBatch", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { failed <- struct{}{} }).
		Return(assert.AnError)

	bus := new(mockPublisher)

	svc := NewService(mapsAPI, repo, bus, 0)

	conditions := svc.GetCurrentConditions(context.Background(), testCenter, 5)

	require.Len(t, conditions, 1)
	assert.Equal(t, SeverityModerate, conditions[0].Severity)

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a persist attempt")
	}
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSimulateConditionsHourProfiles(t *testing.T) {
	tests := []struct {
		name              string
		hour              int
		allowedSeverities []Severity
		minSpeed          float64
		maxSpeed          float64
	}{
		{"morning rush", 8, []Severity{SeverityModerate, SeverityHigh}, 15, 35},
		{"evening rush", 18, []Severity{SeverityModerate, SeverityHigh}, 12, 32},
		{"night", 23, []Severity{SeverityLow}, 45, 65},
		{"midday", 13, []Severity{SeverityLow, SeverityModerate}, 30, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapsAPI := new(mockMapsAPI)
			mapsAPI.On("Ready").Return(true)
			mapsAPI.On("ReverseGeocode", mock.Anything, mock.Anything).Return(nil, assert.AnError)

			svc := NewService(mapsAPI, nil, nil, 0)
			svc.now = fixedClock(time.Date(2025, 6, 15, tt.hour, 30, 0, 0, time.UTC))

			conditions := svc.simulateConditions(context.Background(), testCenter)

			require.GreaterOrEqual(t, len(conditions), 2)
			require.LessOrEqual(t, len(conditions), 4)
			for _, c := range conditions {
				assert.Contains(t, tt.allowedSeverities, c.Severity)
				assert.GreaterOrEqual(t, c.SpeedMph, tt.minSpeed)
				assert.LessOrEqual(t, c.SpeedMph, tt.maxSpeed)
				assert.Equal(t, SimulatedDataConfidence, c.Confidence)
				assert.False(t, c.IsReal())
			}
		})
	}
}
