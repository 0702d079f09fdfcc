package navigation

import (
	"fmt"
	"net/url"
)

// App is one external turn-by-turn application the dashboard can hand a
// destination to. NativeURL uses the app's custom scheme; WebURL is the
// fallback opened when the scheme fails to launch.
type App struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	NativeURL string   `json:"native_url"`
	WebURL    string   `json:"web_url"`
	Platforms []string `json:"platforms"`
}

// Destination is the point handed off to a navigation app.
type Destination struct {
	Latitude  float64
	Longitude float64
	Label     string
}

// GoogleMapsApp builds the Google Maps hand-off links.
func GoogleMapsApp(dest Destination) App {
	coords := fmt.Sprintf("%f,%f", dest.Latitude, dest.Longitude)
	query := coords
	if dest.Label != "" {
		query = dest.Label
	}

	return App{
		ID:   "google_maps",
		Name: "Google Maps",
		NativeURL: fmt.Sprintf("comgooglemaps://?daddr=%s&directionsmode=driving",
			url.QueryEscape(query)),
		WebURL: fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%s",
			url.QueryEscape(query)),
		Platforms: []string{"ios", "android", "web"},
	}
}

// WazeApp builds the Waze hand-off links. Waze navigates by coordinates
// only.
func WazeApp(dest Destination) App {
	coords := fmt.Sprintf("%f,%f", dest.Latitude, dest.Longitude)

	return App{
		ID:        "waze",
		Name:      "Waze",
		NativeURL: fmt.Sprintf("waze://?ll=%s&navigate=yes", coords),
		WebURL:    fmt.Sprintf("https://waze.com/ul?ll=%s&navigate=yes", coords),
		Platforms: []string{"ios", "android"},
	}
}

// AppleMapsApp builds the Apple Maps hand-off links.
func AppleMapsApp(dest Destination) App {
	params := fmt.Sprintf("daddr=%f,%f&dirflg=d", dest.Latitude, dest.Longitude)
	if dest.Label != "" {
		params += "&q=" + url.QueryEscape(dest.Label)
	}

	return App{
		ID:        "apple_maps",
		Name:      "Apple Maps",
		NativeURL: "maps://?" + params,
		WebURL:    "https://maps.apple.com/?" + params,
		Platforms: []string{"ios", "macos"},
	}
}

// Apps returns every supported hand-off target for a destination.
func Apps(dest Destination) []App {
	return []App{
		GoogleMapsApp(dest),
		WazeApp(dest),
		AppleMapsApp(dest),
	}
}
