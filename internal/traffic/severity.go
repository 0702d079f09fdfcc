package traffic

// Severity thresholds as a percentage of base travel time. The same bands
// are used everywhere a severity is derived: traffic conditions and route
// scoring must classify identically.
const (
	severeDelayPercent   = 50
	highDelayPercent     = 25
	moderateDelayPercent = 10
)

// ClassifyDelay classifies a delay against its base duration. Both values
// are minutes; a non-positive base yields low since there is no meaningful
// percentage to take.
func ClassifyDelay(delayMinutes, baseMinutes float64) Severity {
	if baseMinutes <= 0 {
		return SeverityLow
	}

	percent := delayMinutes / baseMinutes * 100

	switch {
	case percent >= severeDelayPercent:
		return SeveritySevere
	case percent >= highDelayPercent:
		return SeverityHigh
	case percent >= moderateDelayPercent:
		return SeverityModerate
	default:
		return SeverityLow
	}
}
