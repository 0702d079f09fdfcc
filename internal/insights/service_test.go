package insights

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadpulse/roadpulse/internal/traffic"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, jsonMode)
	return args.String(0), args.Error(1)
}

func sampleConditions() []*traffic.TrafficCondition {
	return []*traffic.TrafficCondition{
		{
			ID:                       "real-traffic-1",
			Severity:                 traffic.SeverityHigh,
			SpeedMph:                 22,
			DurationMinutes:          20,
			PredictedDurationMinutes: 27,
			Cause:                    "Heavy congestion",
			Location:                 traffic.Location{Address: "Market St"},
		},
	}
}

func TestAnalyzeConditionsParsesModelOutput(t *testing.T) {
	llm := new(mockCompleter)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, true).
		Return(`{
			"severity": "high",
			"confidence": 0.85,
			"summary": "Heavy congestion on Market St.",
			"recommendations": ["Leave after 7 PM"],
			"predicted_congestion": 72,
			"best_time_to_travel": "After 7 PM",
			"estimated_delay_minutes": 18
		}`, nil)

	svc := NewService(llm, nil)

	insight := svc.AnalyzeConditions(context.Background(), sampleConditions())

	require.NotNil(t, insight)
	assert.Equal(t, traffic.SeverityHigh, insight.Severity)
	assert.Equal(t, 0.85, insight.Confidence)
	assert.Equal(t, 72, insight.PredictedCongestion)
	assert.Equal(t, 18, insight.EstimatedDelayMinutes)
}

func TestAnalyzeConditionsFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"completion error", "", assert.AnError},
		{"malformed JSON", `{"severity": "high", "summary":`, nil},
		{"not JSON at all", "Traffic looks bad today.", nil},
		{"unknown severity", `{"severity": "apocalyptic", "summary": "x"}`, nil},
		{"missing summary", `{"severity": "high"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(mockCompleter)
			llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, true).
				Return(tt.content, tt.err)

			svc := NewService(llm, nil)

			insight := svc.AnalyzeConditions(context.Background(), sampleConditions())

			require.NotNil(t, insight)
			assert.Equal(t, traffic.SeverityModerate, insight.Severity)
			assert.Equal(t, 0.6, insight.Confidence)
			assert.Equal(t, 45, insight.PredictedCongestion)
			assert.NotEmpty(t, insight.Summary)
			assert.NotEmpty(t, insight.Recommendations)
		})
	}
}

func TestAnalyzeConditionsClampsDelay(t *testing.T) {
	tests := []struct {
		name     string
		delay    int
		expected int
	}{
		{"above cap", 240, 60},
		{"negative", -5, 0},
		{"within range", 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(mockCompleter)
			llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, true).
				Return(`{"severity": "moderate", "summary": "ok", "estimated_delay_minutes": `+
					strconv.Itoa(tt.delay)+`}`, nil)

			svc := NewService(llm, nil)

			insight := svc.AnalyzeConditions(context.Background(), sampleConditions())
			assert.Equal(t, tt.expected, insight.EstimatedDelayMinutes)
		})
	}
}

func TestOptimizeRoute(t *testing.T) {
	route := RouteContext{
		Summary:                  "I-80 E",
		Destination:              "Oakland, CA",
		DistanceMiles:            12,
		DurationMinutes:          20,
		DurationInTrafficMinutes: 28,
		TrafficLevel:             traffic.SeverityHigh,
	}

	t.Run("returns model prose", func(t *testing.T) {
		llm := new(mockCompleter)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, false).
			Return("Leave before 4 PM to skip the bridge backup.", nil)

		svc := NewService(llm, nil)
		assert.Equal(t, "Leave before 4 PM to skip the bridge backup.",
			svc.OptimizeRoute(context.Background(), route))
	})

	t.Run("falls back on failure", func(t *testing.T) {
		llm := new(mockCompleter)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, false).
			Return("", assert.AnError)

		svc := NewService(llm, nil)
		assert.Equal(t, fallbackRouteSuggestion, svc.OptimizeRoute(context.Background(), route))
	})

	t.Run("falls back on blank output", func(t *testing.T) {
		llm := new(mockCompleter)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, false).
			Return("   ", nil)

		svc := NewService(llm, nil)
		assert.Equal(t, fallbackRouteSuggestion, svc.OptimizeRoute(context.Background(), route))
	})
}

func TestForecastTrends(t *testing.T) {
	t.Run("parses valid trend", func(t *testing.T) {
		llm := new(mockCompleter)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, true).
			Return(`{"trend": "worsening", "summary": "Evening rush building.", "peak_hours": ["5-7 PM"], "expected_change_percent": 20}`, nil)

		svc := NewService(llm, nil)

		forecast := svc.ForecastTrends(context.Background(), sampleConditions())
		assert.Equal(t, "worsening", forecast.Trend)
		assert.Equal(t, 20, forecast.ExpectedChangePercent)
	})

	t.Run("falls back on invalid trend value", func(t *testing.T) {
		llm := new(mockCompleter)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, true).
			Return(`{"trend": "sideways", "summary": "x"}`, nil)

		svc := NewService(llm, nil)

		forecast := svc.ForecastTrends(context.Background(), sampleConditions())
		assert.Equal(t, "stable", forecast.Trend)
		assert.NotEmpty(t, forecast.PeakHours)
	})
}
