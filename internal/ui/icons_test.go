package ui

import "testing"

func TestIconFor(t *testing.T) {
	tests := map[string]Icon{
		"Clear":        "fas fa-sun",
		"Clouds":       "fas fa-cloud",
		"Rain":         "fas fa-cloud-rain",
		"Drizzle":      "fas fa-cloud-drizzle",
		"Thunderstorm": "fas fa-thunderstorm",
		"Snow":         "fas fa-snowflake",
		"Mist":         "fas fa-smog",
		"Smoke":        "fas fa-smog",
		"Haze":         "fas fa-smog",
		"Dust":         "fas fa-smog",
		"Fog":          "fas fa-smog",
		"Sand":         "fas fa-smog",
		"Ash":          "fas fa-smog",
		"Squall":       "fas fa-wind",
		"Tornado":      "fas fa-tornado",
		"Plasma":       "fas fa-sun",
		"":             "fas fa-sun",
		"rain":         "fas fa-sun",
	}
	for category, want := range tests {
		if got := IconFor(category); got != want {
			t.Errorf("IconFor(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestPositionMessage(t *testing.T) {
	tests := []struct {
		code PositionErrorCode
		want string
	}{
		{PermissionDenied, "Location access denied by user"},
		{PositionUnavailable, "Location information is unavailable"},
		{Timeout, "Location request timed out"},
		{0, "Unable to retrieve your location"},
		{7, "Unable to retrieve your location"},
	}
	for _, tt := range tests {
		if got := PositionMessage(tt.code); got != tt.want {
			t.Errorf("PositionMessage(%d) = %q, want %q", tt.code, got, tt.want)
		}
		if got := (&PositionError{Code: tt.code}).Error(); got != tt.want {
			t.Errorf("PositionError{%d}.Error() = %q", tt.code, got)
		}
	}
}
