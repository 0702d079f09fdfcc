package routes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

func TestNewSavedRoutePreservesScoringFields(t *testing.T) {
	userID := uuid.New()
	savings := 5.0
	result := RouteResult{
		ID:                       uuid.New().String(),
		Summary:                  "US-101 N and I-280 S",
		Description:              "Heavy traffic via US-101 N and I-280 S",
		DistanceMiles:            10.0,
		DurationMinutes:          20.0,
		DurationInTrafficMinutes: 25.0,
		DelayMinutes:             5.0,
		TrafficLevel:             traffic.SeverityHigh,
		Recommended:              true,
		SavingsMinutes:           &savings,
		Waypoints:                []string{"US-101 N", "I-280 S"},
	}

	route := newSavedRoute(userID, "Oakland, CA", testOrigin, result)

	assert.Equal(t, userID, route.UserID)
	assert.Equal(t, "Oakland, CA", route.Destination)
	assert.Equal(t, testOrigin.Latitude, route.OriginLatitude)
	assert.Equal(t, testOrigin.Longitude, route.OriginLongitude)

	assert.Equal(t, result.Summary, route.Summary)
	assert.Equal(t, result.DistanceMiles, route.DistanceMiles)
	assert.Equal(t, result.DurationMinutes, route.DurationMinutes)
	assert.Equal(t, result.DurationInTrafficMinutes, route.DurationInTrafficMinutes)
	assert.Equal(t, result.TrafficLevel, route.TrafficLevel)
	assert.Equal(t, result.Waypoints, route.Waypoints)

	// Rows get their own identity, not the transient result ID.
	assert.NotEqual(t, result.ID, route.ID.String())
	assert.NotEqual(t, uuid.Nil, route.ID)
}

func TestNewSavedRouteEachRowGetsDistinctID(t *testing.T) {
	userID := uuid.New()
	result := RouteResult{Summary: "I-80 E", TrafficLevel: traffic.SeverityLow}

	first := newSavedRoute(userID, "Sacramento, CA", testOrigin, result)
	second := newSavedRoute(userID, "Sacramento, CA", testOrigin, result)

	assert.NotEqual(t, first.ID, second.ID)
}
