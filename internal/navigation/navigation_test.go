package navigation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDest = Destination{Latitude: 37.7749, Longitude: -122.4194, Label: "Ferry Building"}

func TestApps(t *testing.T) {
	apps := Apps(testDest)

	require.Len(t, apps, 3)
	ids := []string{apps[0].ID, apps[1].ID, apps[2].ID}
	assert.Equal(t, []string{"google_maps", "waze", "apple_maps"}, ids)

	for _, app := range apps {
		assert.NotEmpty(t, app.NativeURL)
		assert.True(t, strings.HasPrefix(app.WebURL, "https://"), "web fallback must be https: %s", app.WebURL)
		assert.NotEmpty(t, app.Platforms)
	}
}

func TestGoogleMapsAppPrefersLabel(t *testing.T) {
	app := GoogleMapsApp(testDest)

	assert.Contains(t, app.NativeURL, "comgooglemaps://")
	assert.Contains(t, app.WebURL, "Ferry+Building")

	unlabeled := GoogleMapsApp(Destination{Latitude: 1.5, Longitude: 2.5})
	assert.Contains(t, unlabeled.WebURL, "1.500000%2C2.500000")
}

func TestWazeAppUsesCoordinates(t *testing.T) {
	app := WazeApp(testDest)

	assert.Contains(t, app.NativeURL, "waze://")
	assert.Contains(t, app.NativeURL, "37.774900,-122.419400")
	assert.NotContains(t, app.NativeURL, "Ferry")
}

func TestAppleMapsApp(t *testing.T) {
	app := AppleMapsApp(testDest)

	assert.Contains(t, app.NativeURL, "maps://")
	assert.Contains(t, app.WebURL, "maps.apple.com")
	assert.Contains(t, app.WebURL, "q=Ferry+Building")
}
