package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/logger"
	"github.com/roadpulse/roadpulse/pkg/resilience"
)

const (
	maxEstimatedDelayMinutes = 60

	fallbackConfidence = 0.6
	fallbackCongestion = 45
)

// Service turns traffic and route context into narrative insights via a
// hosted LLM. Every failure path substitutes a fixed fallback; callers
// never see an error from the analysis methods.
type Service struct {
	llm     ChatCompleter
	breaker *resilience.CircuitBreaker
}

// NewService creates a new insights service
func NewService(llm ChatCompleter, breaker *resilience.CircuitBreaker) *Service {
	return &Service{llm: llm, breaker: breaker}
}

// fallbackInsight is returned whenever the model call or its parsing
// fails. The constants are deliberate: a neutral, plausible reading.
func fallbackInsight() *AITrafficInsight {
	return &AITrafficInsight{
		Severity:   traffic.SeverityModerate,
		Confidence: fallbackConfidence,
		Summary:    "Traffic analysis is temporarily unavailable. Conditions appear typical for this time of day.",
		Recommendations: []string{
			"Check live conditions before departing",
			"Allow extra time for your trip",
		},
		PredictedCongestion:   fallbackCongestion,
		BestTimeToTravel:      "Off-peak hours (10 AM - 3 PM)",
		EstimatedDelayMinutes: 15,
	}
}

const analyzeSystemPrompt = `You are a traffic analyst. Respond with a single JSON object with keys:
severity (one of low, moderate, high, severe), confidence (0-1), summary (string),
recommendations (array of strings), predicted_congestion (0-100),
best_time_to_travel (string), alternative_route (string), estimated_delay_minutes (number).`

// AnalyzeConditions produces a structured insight from current
// conditions. Malformed or out-of-range model output falls back.
func (s *Service) AnalyzeConditions(ctx context.Context, conditions []*traffic.TrafficCondition) *AITrafficInsight {
	prompt := buildConditionsPrompt(conditions)

	content, err := s.complete(ctx, analyzeSystemPrompt, prompt, true)
	if err != nil {
		logger.WarnContext(ctx, "condition analysis failed, using fallback", zap.Error(err))
		return fallbackInsight()
	}

	var insight AITrafficInsight
	if err := json.Unmarshal([]byte(content), &insight); err != nil {
		logger.WarnContext(ctx, "condition analysis returned unparseable JSON", zap.Error(err))
		return fallbackInsight()
	}
	if insight.Severity.Rank() < 0 || insight.Summary == "" {
		logger.WarnContext(ctx, "condition analysis returned invalid fields",
			zap.String("severity", string(insight.Severity)))
		return fallbackInsight()
	}

	if insight.Confidence < 0 {
		insight.Confidence = 0
	}
	if insight.Confidence > 1 {
		insight.Confidence = 1
	}
	if insight.PredictedCongestion < 0 {
		insight.PredictedCongestion = 0
	}
	if insight.PredictedCongestion > 100 {
		insight.PredictedCongestion = 100
	}
	if insight.EstimatedDelayMinutes < 0 {
		insight.EstimatedDelayMinutes = 0
	}
	if insight.EstimatedDelayMinutes > maxEstimatedDelayMinutes {
		insight.EstimatedDelayMinutes = maxEstimatedDelayMinutes
	}

	return &insight
}

const fallbackRouteSuggestion = "Consider leaving outside peak hours and checking alternative routes before you depart."

// OptimizeRoute produces a short prose suggestion for the given route.
func (s *Service) OptimizeRoute(ctx context.Context, route RouteContext) string {
	prompt := fmt.Sprintf(
		"Route to %s via %s: %.1f miles, %.0f min normally, %.0f min in current traffic (level: %s). In two or three sentences, suggest how the driver could optimize this trip.",
		route.Destination, route.Summary, route.DistanceMiles,
		route.DurationMinutes, route.DurationInTrafficMinutes, route.TrafficLevel)

	content, err := s.complete(ctx, "You are a concise driving assistant.", prompt, false)
	if err != nil || strings.TrimSpace(content) == "" {
		if err != nil {
			logger.WarnContext(ctx, "route optimization failed, using fallback", zap.Error(err))
		}
		return fallbackRouteSuggestion
	}

	return strings.TrimSpace(content)
}

func fallbackTrendForecast() *TrendForecast {
	return &TrendForecast{
		Trend:                 "stable",
		Summary:               "Trend data is temporarily unavailable. Expect typical patterns: heavier traffic during morning and evening commutes.",
		PeakHours:             []string{"7-9 AM", "5-7 PM"},
		ExpectedChangePercent: 0,
	}
}

const trendSystemPrompt = `You are a traffic analyst. Respond with a single JSON object with keys:
trend (one of improving, stable, worsening), summary (string),
peak_hours (array of strings), expected_change_percent (number).`

// ForecastTrends produces a structured multi-hour trend outlook.
func (s *Service) ForecastTrends(ctx context.Context, conditions []*traffic.TrafficCondition) *TrendForecast {
	content, err := s.complete(ctx, trendSystemPrompt, buildConditionsPrompt(conditions), true)
	if err != nil {
		logger.WarnContext(ctx, "trend forecast failed, using fallback", zap.Error(err))
		return fallbackTrendForecast()
	}

	var forecast TrendForecast
	if err := json.Unmarshal([]byte(content), &forecast); err != nil {
		logger.WarnContext(ctx, "trend forecast returned unparseable JSON", zap.Error(err))
		return fallbackTrendForecast()
	}
	switch forecast.Trend {
	case "improving", "stable", "worsening":
	default:
		return fallbackTrendForecast()
	}

	return &forecast
}

// complete routes the model call through the circuit breaker.
func (s *Service) complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.llm.Complete(ctx, systemPrompt, userPrompt, jsonMode)
	})
	if err != nil {
		return "", err
	}

	content, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected completion result type %T", result)
	}
	return content, nil
}

func buildConditionsPrompt(conditions []*traffic.TrafficCondition) string {
	if len(conditions) == 0 {
		return "No current traffic conditions were observed. Describe the likely situation."
	}

	var b strings.Builder
	b.WriteString("Current traffic conditions:\n")
	for _, c := range conditions {
		fmt.Fprintf(&b, "- %s near %s: %s, %.0f mph, %.0f min (normally %.0f min)\n",
			c.Cause, c.Location.Address, c.Severity, c.SpeedMph,
			c.PredictedDurationMinutes, c.DurationMinutes)
	}
	b.WriteString("Analyze these conditions for a commuter.")
	return b.String()
}
