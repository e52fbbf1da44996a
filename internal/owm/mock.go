package owm

import (
	"net/http"
	"strings"
	"time"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

type mockCity struct {
	Name     string
	Country  string
	Lat      float64
	Lon      float64
	Timezone int
}

var mockCities = []mockCity{
	{Name: "Delhi", Country: "IN", Lat: 28.6667, Lon: 77.2167, Timezone: 19800},
	{Name: "Budapest", Country: "HU", Lat: 47.4979, Lon: 19.0402, Timezone: 3600},
	{Name: "London", Country: "GB", Lat: 51.5074, Lon: -0.1278, Timezone: 0},
	{Name: "New York", Country: "US", Lat: 40.7128, Lon: -74.0060, Timezone: -18000},
	{Name: "Tokyo", Country: "JP", Lat: 35.6762, Lon: 139.6503, Timezone: 32400},
	{Name: "Paris", Country: "FR", Lat: 48.8566, Lon: 2.3522, Timezone: 3600},
	{Name: "Berlin", Country: "DE", Lat: 52.5200, Lon: 13.4050, Timezone: 3600},
	{Name: "Sydney", Country: "AU", Lat: -33.8688, Lon: 151.2093, Timezone: 36000},
	{Name: "San Francisco", Country: "US", Lat: 37.7749, Lon: -122.4194, Timezone: -28800},
	{Name: "Amsterdam", Country: "NL", Lat: 52.3676, Lon: 4.9041, Timezone: 3600},
	{Name: "Vienna", Country: "AT", Lat: 48.2082, Lon: 16.3738, Timezone: 3600},
}

var mockConditions = []models.Condition{
	{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"},
	{ID: 802, Main: "Clouds", Description: "scattered clouds", Icon: "03d"},
	{ID: 500, Main: "Rain", Description: "light rain", Icon: "10d"},
	{ID: 804, Main: "Clouds", Description: "overcast clouds", Icon: "04d"},
}

func findMockCity(name string) (mockCity, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	for _, c := range mockCities {
		if strings.ToLower(c.Name) == q {
			return c, true
		}
	}
	return mockCity{}, false
}

func nearestMockCity(lat, lon float64) mockCity {
	best := mockCities[0]
	bestDist := -1.0
	for _, c := range mockCities {
		d := (c.Lat-lat)*(c.Lat-lat) + (c.Lon-lon)*(c.Lon-lon)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func mockCurrentByCity(name string, now time.Time) (*CurrentResponse, error) {
	city, ok := findMockCity(name)
	if !ok {
		return nil, &StatusError{Status: http.StatusNotFound, Body: `{"cod":"404","message":"city not found"}`}
	}
	return mockCurrent(city, now), nil
}

func mockCurrentByCoords(lat, lon float64, now time.Time) *CurrentResponse {
	return mockCurrent(nearestMockCity(lat, lon), now)
}

func mockForecastByCity(name string, now time.Time) (*ForecastResponse, error) {
	city, ok := findMockCity(name)
	if !ok {
		return nil, &StatusError{Status: http.StatusNotFound, Body: `{"cod":"404","message":"city not found"}`}
	}
	return mockForecast(city, now), nil
}

func mockForecastByCoords(lat, lon float64, now time.Time) *ForecastResponse {
	return mockForecast(nearestMockCity(lat, lon), now)
}

// mockCurrent provides stable sample data; values vary by city so the UI
// visibly changes between searches.
func mockCurrent(city mockCity, now time.Time) *CurrentResponse {
	seed := len(city.Name)
	out := &CurrentResponse{
		Name:       city.Name,
		Dt:         now.Unix(),
		Timezone:   city.Timezone,
		Weather:    []models.Condition{mockConditions[seed%len(mockConditions)]},
		Visibility: 10000,
	}
	out.Main.Temp = 14 + float64(seed)
	out.Main.FeelsLike = out.Main.Temp - 1.4
	out.Main.TempMin = out.Main.Temp - 3
	out.Main.TempMax = out.Main.Temp + 3
	out.Main.Pressure = 1013
	out.Main.Humidity = float64(40 + seed*3)
	out.Wind.Speed = 3.6
	out.Wind.Deg = 220
	out.Sys.Country = city.Country

	loc := time.FixedZone(city.Name, city.Timezone)
	day := now.In(loc)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	out.Sys.Sunrise = midnight.Add(6*time.Hour + 12*time.Minute).Unix()
	out.Sys.Sunset = midnight.Add(18*time.Hour + 47*time.Minute).Unix()
	return out
}

// mockForecast mirrors the upstream shape: 40 entries in 3-hour steps.
func mockForecast(city mockCity, now time.Time) *ForecastResponse {
	out := &ForecastResponse{}
	out.City.Name = city.Name
	out.City.Country = city.Country
	out.City.Timezone = city.Timezone

	start := now.UTC().Truncate(3 * time.Hour).Add(3 * time.Hour)
	base := 14 + float64(len(city.Name))
	for i := 0; i < 40; i++ {
		var e ForecastEntry
		e.Dt = start.Add(time.Duration(i*3) * time.Hour).Unix()
		e.Main.Temp = base + float64((i%8)-3)
		e.Main.TempMin = e.Main.Temp - 1
		e.Main.TempMax = e.Main.Temp + 1
		e.Weather = []models.Condition{mockConditions[(i/4)%len(mockConditions)]}
		out.List = append(out.List, e)
	}
	return out
}
