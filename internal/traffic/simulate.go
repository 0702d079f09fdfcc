package traffic

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/internal/maps"
)

// hourProfile is the deterministic severity/speed/cause table keyed by
// hour of day, used when no live signal is available.
type hourProfile struct {
	severities []Severity
	minSpeed   float64
	maxSpeed   float64
	causes     []string
}

var (
	morningRushProfile = hourProfile{
		severities: []Severity{SeverityModerate, SeverityHigh},
		minSpeed:   15,
		maxSpeed:   35,
		causes:     []string{"Morning rush hour", "Heavy commuter traffic", "School drop-off congestion"},
	}
	eveningRushProfile = hourProfile{
		severities: []Severity{SeverityModerate, SeverityHigh},
		minSpeed:   12,
		maxSpeed:   32,
		causes:     []string{"Evening rush hour", "Heavy commuter traffic", "Congestion near business district"},
	}
	nightProfile = hourProfile{
		severities: []Severity{SeverityLow},
		minSpeed:   45,
		maxSpeed:   65,
		causes:     []string{"Light overnight traffic", "Clear roads"},
	}
	normalProfile = hourProfile{
		severities: []Severity{SeverityLow, SeverityModerate},
		minSpeed:   30,
		maxSpeed:   50,
		causes:     []string{"Normal traffic flow", "Intermittent slowdowns", "Local event traffic"},
	}
)

// profileForHour selects the simulation profile for an hour of day.
func profileForHour(hour int) hourProfile {
	switch {
	case hour >= 7 && hour <= 9:
		return morningRushProfile
	case hour >= 17 && hour <= 19:
		return eveningRushProfile
	case hour >= 22 || hour <= 5:
		return nightProfile
	default:
		return normalProfile
	}
}

// causesBySeverity backs the cause label synthesized for live conditions.
var causesBySeverity = map[Severity][]string{
	SeverityLow:      {"Normal traffic flow", "Clear conditions"},
	SeverityModerate: {"Moderate congestion", "Slower than usual traffic", "Busy intersection ahead"},
	SeverityHigh:     {"Heavy congestion", "Significant delays reported", "Stop-and-go traffic"},
	SeveritySevere:   {"Severe congestion", "Major delays", "Possible incident ahead"},
}

func causeFor(severity Severity) string {
	causes := causesBySeverity[severity]
	if len(causes) == 0 {
		return "Traffic congestion"
	}
	return causes[rand.Intn(len(causes))]
}

// simulateConditions generates 2-4 synthetic conditions at small angular
// offsets around the center. It never fails; reverse geocoding of each
// offset point is best-effort.
func (s *Service) simulateConditions(ctx context.Context, center Location) []*TrafficCondition {
	profile := profileForHour(s.now().Hour())
	count := 2 + rand.Intn(3)

	conditions := make([]*TrafficCondition, 0, count)
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		distance := 0.01 + rand.Float64()*0.015
		lat := center.Latitude + distance*math.Cos(angle)
		lng := center.Longitude + distance*math.Sin(angle)

		address := fmt.Sprintf("Near %.4f, %.4f", lat, lng)
		if s.maps != nil && s.maps.Ready() {
			if geo, err := s.maps.ReverseGeocode(ctx, maps.Coordinate{Latitude: lat, Longitude: lng}); err == nil && geo.Address != "" {
				address = geo.Address
			}
		}

		severity := profile.severities[rand.Intn(len(profile.severities))]
		speed := profile.minSpeed + rand.Float64()*(profile.maxSpeed-profile.minSpeed)
		baseMinutes := 10 + rand.Float64()*10
		delayMinutes := simulatedDelayFor(severity, baseMinutes)

		conditions = append(conditions, &TrafficCondition{
			ID: SimulatedConditionPrefix + uuid.New().String(),
			Location: Location{
				Latitude:  lat,
				Longitude: lng,
				Address:   address,
			},
			Severity:                 severity,
			SpeedMph:                 math.Round(speed*10) / 10,
			DurationMinutes:          math.Round(baseMinutes),
			PredictedDurationMinutes: math.Round(baseMinutes + delayMinutes),
			Confidence:               SimulatedDataConfidence,
			Timestamp:                s.now(),
			AffectedRoutes:           []string{address},
			Cause:                    profile.causes[rand.Intn(len(profile.causes))],
			Description:              fmt.Sprintf("Simulated conditions near %s", address),
		})
	}

	return conditions
}

// simulatedDelayFor picks a delay that stays inside the severity's
// classification band, so simulated conditions classify consistently.
func simulatedDelayFor(severity Severity, baseMinutes float64) float64 {
	switch severity {
	case SeveritySevere:
		return baseMinutes * (0.5 + rand.Float64()*0.3)
	case SeverityHigh:
		return baseMinutes * (0.25 + rand.Float64()*0.2)
	case SeverityModerate:
		return baseMinutes * (0.10 + rand.Float64()*0.12)
	default:
		return baseMinutes * rand.Float64() * 0.08
	}
}
