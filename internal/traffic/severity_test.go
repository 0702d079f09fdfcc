package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDelay(t *testing.T) {
	tests := []struct {
		name     string
		delay    float64
		base     float64
		expected Severity
	}{
		{"60 percent is severe", 12, 20, SeveritySevere},
		{"exactly 50 percent is severe", 10, 20, SeveritySevere},
		{"20 percent is moderate", 4, 20, SeverityModerate},
		{"exactly 25 percent is high", 5, 20, SeverityHigh},
		{"5 percent is low", 1, 20, SeverityLow},
		{"exactly 10 percent is moderate", 2, 20, SeverityModerate},
		{"zero delay is low", 0, 20, SeverityLow},
		{"zero base is low", 10, 0, SeverityLow},
		{"negative base is low", 10, -5, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDelay(tt.delay, tt.base))
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.True(t, SeverityLow.Rank() < SeverityModerate.Rank())
	assert.True(t, SeverityModerate.Rank() < SeverityHigh.Rank())
	assert.True(t, SeverityHigh.Rank() < SeveritySevere.Rank())
	assert.Equal(t, -1, Severity("bogus").Rank())
}
