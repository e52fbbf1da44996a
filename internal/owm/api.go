package owm

import "github.com/PetoAdam/homenavi/weather-app/internal/models"

// API Docs: https://openweathermap.org/current and https://openweathermap.org/forecast5

// CurrentResponse is the subset of /data/2.5/weather the app consumes.
type CurrentResponse struct {
	Name     string             `json:"name"`
	Dt       int64              `json:"dt"`
	Timezone int                `json:"timezone"` // shift in seconds from UTC
	Weather  []models.Condition `json:"weather"`
	Main     struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"` // metres
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// ForecastEntry is one 3-hour step of /data/2.5/forecast.
type ForecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []models.Condition `json:"weather"`
}

type ForecastResponse struct {
	List []ForecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}
