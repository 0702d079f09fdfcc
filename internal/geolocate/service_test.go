package geolocate

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/redis"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Ready() bool {
	return m.Called().Bool(0)
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, location maps.Coordinate) (*maps.GeocodeResult, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maps.GeocodeResult), args.Error(1)
}

func TestSaveAndGetLocation(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	cache := redis.NewClientFromRedis(db)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(cache, nil)
	svc.now = func() time.Time { return now }

	loc := traffic.Location{Latitude: 37.7749, Longitude: -122.4194, Address: "San Francisco, CA"}
	entry := &SessionLocation{Location: loc, Timestamp: now, SessionID: "sess-1"}
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	redisMock.ExpectSet("session:location:sess-1", data, SessionLocationTTL).SetVal("OK")

	saved, err := svc.SaveLocation(context.Background(), "sess-1", loc)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", saved.SessionID)
	assert.Equal(t, loc, saved.Location)

	redisMock.ExpectGet("session:location:sess-1").SetVal(string(data))

	got, err := svc.GetLocation(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, loc, got.Location)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestGetLocationMiss(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	cache := redis.NewClientFromRedis(db)

	svc := NewService(cache, nil)

	redisMock.ExpectGet("session:location:sess-2").RedisNil()

	got, err := svc.GetLocation(context.Background(), "sess-2")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetLocationExpiredEntry(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	cache := redis.NewClientFromRedis(db)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(cache, nil)
	svc.now = func() time.Time { return now }

	stale := &SessionLocation{
		Location:  traffic.Location{Latitude: 1, Longitude: 2},
		Timestamp: now.Add(-25 * time.Hour),
		SessionID: "sess-3",
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)

	redisMock.ExpectGet("session:location:sess-3").SetVal(string(data))

	got, err := svc.GetLocation(context.Background(), "sess-3")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveRegion(t *testing.T) {
	t.Run("uses reverse geocoding when available", func(t *testing.T) {
		geocoder := new(mockGeocoder)
		geocoder.On("Ready").Return(true)
		geocoder.On("ReverseGeocode", mock.Anything, maps.Coordinate{Latitude: 37.7749, Longitude: -122.4194}).
			Return(&maps.GeocodeResult{Address: "San Francisco, CA"}, nil)

		svc := NewService(nil, geocoder)

		assert.Equal(t, "San Francisco, CA", svc.ResolveRegion(context.Background(), 37.7749, -122.4194))
	})

	t.Run("falls back to continent boxes", func(t *testing.T) {
		geocoder := new(mockGeocoder)
		geocoder.On("Ready").Return(true)
		geocoder.On("ReverseGeocode", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		svc := NewService(nil, geocoder)

		tests := []struct {
			name     string
			lat, lng float64
			region   string
		}{
			{"central US", 40, -100, "North America"},
			{"France", 48, 2, "Europe"},
			{"Brazil", -10, -55, "South America"},
			{"Australia", -25, 134, "Oceania"},
			{"middle of nowhere", -80, -10, "Unknown Region"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.region, svc.ResolveRegion(context.Background(), tt.lat, tt.lng))
			})
		}
	})

	t.Run("skips geocoder when not ready", func(t *testing.T) {
		geocoder := new(mockGeocoder)
		geocoder.On("Ready").Return(false)

		svc := NewService(nil, geocoder)

		assert.Equal(t, "North America", svc.ResolveRegion(context.Background(), 40, -100))
		geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})
}
