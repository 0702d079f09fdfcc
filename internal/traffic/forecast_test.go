package traffic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPredictionsBaseline(t *testing.T) {
	mapsAPI := new(mockMapsAPI)
	mapsAPI.On("Ready").Return(false)

	svc := NewService(mapsAPI, nil, nil, 0)
	// 05:00: the first point uses the low overnight factor.
	svc.now = fixedClock(time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC))

	forecast := svc.GetPredictions(context.Background(), testCenter)

	require.NotNil(t, forecast)
	require.Len(t, forecast.Predictions, 12)

	// No conditions at all: the baseline level of 20 is projected.
	// 20 * 0.3 (the 05:00 factor) rounds to 6.
	assert.Equal(t, 6, forecast.Predictions[0].CongestionPercent)

	for i, p := range forecast.Predictions {
		assert.GreaterOrEqual(t, p.CongestionPercent, 0)
		assert.LessOrEqual(t, p.CongestionPercent, 100)

		expected := RealDataConfidence - confidenceDecayStep*i
		if expected < confidenceFloor {
			expected = confidenceFloor
		}
		assert.Equal(t, expected, p.Confidence)
	}

	assert.Equal(t, 95, forecast.Predictions[0].Confidence)
	assert.Equal(t, 62, forecast.Predictions[11].Confidence)

	assert.Equal(t, forecastBaseAccuracy, forecast.Accuracy)
	assert.Equal(t, PredictionFactors{
		RealTimePercent:   50,
		HistoricalPercent: 25,
		WeatherPercent:    15,
		EventsPercent:     10,
	}, forecast.Factors)
}

func TestGetPredictionsWithRealConditions(t *testing.T) {
	now := time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)

	mapsAPI := new(mockMapsAPI)
	mapsAPI.On("Ready").Return(true)

	repo := new(mockRepository)
	repo.On("GetRecentNear", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*TrafficCondition{
			{ID: "real-traffic-1", Severity: SeverityHigh, Timestamp: now.Add(-time.Minute)},
			{ID: "real-traffic-2", Severity: SeveritySevere, Timestamp: now.Add(-time.Minute)},
		}, nil)

	svc := NewService(mapsAPI, repo, nil, 0)
	svc.now = fixedClock(now)

	forecast := svc.GetPredictions(context.Background(), testCenter)

	require.Len(t, forecast.Predictions, 12)

	// Level is the mean of high (75) and severe (90): 82.5. The 17:00
	// factor of 1.3 would push past 100, so the first point clamps.
	assert.Equal(t, 100, forecast.Predictions[0].CongestionPercent)

	assert.GreaterOrEqual(t, forecast.Accuracy, 85)
	assert.LessOrEqual(t, forecast.Accuracy, 95)
}

func TestHourCongestionFactorShape(t *testing.T) {
	assert.Equal(t, 0.1, hourCongestionFactor[3])
	assert.Equal(t, 1.3, hourCongestionFactor[17])

	// Overnight hours stay well below the rush peaks.
	for hour := 0; hour <= 5; hour++ {
		assert.Less(t, hourCongestionFactor[hour], hourCongestionFactor[8])
		assert.Less(t, hourCongestionFactor[hour], hourCongestionFactor[17])
	}
}
