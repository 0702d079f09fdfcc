package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"plain address untouched",
			"865 Market St, San Francisco, CA 94103",
			"865 Market St, San Francisco, CA 94103",
		},
		{
			"leading plus code segment dropped",
			"8Q7X+GF, Springfield, IL",
			"Springfield, IL",
		},
		{
			"plus code prefix inside segment stripped",
			"MJ75+HV2 Oakland, CA",
			"Oakland, CA",
		},
		{"only a plus code", "8Q7X+GF", ""},
		{"empty input", "", ""},
		{
			"street number is not a plus code",
			"101 Main St, Portland",
			"101 Main St, Portland",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanAddress(tt.input))
		})
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, statusMessages[StatusZeroResults], StatusMessage(StatusZeroResults))
	assert.Equal(t, statusMessages[StatusOverQueryLimit], StatusMessage(StatusOverQueryLimit))

	// Unknown statuses get the default message, not an empty string.
	assert.Equal(t, defaultStatusMessage, StatusMessage("SOMETHING_NEW"))
	assert.Equal(t, defaultStatusMessage, StatusMessage(""))
}
