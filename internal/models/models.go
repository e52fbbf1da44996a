package models

// Condition is a weather classification as reported by OpenWeatherMap.
// Main is the category used for icon selection ("Rain", "Clouds", ...).
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CurrentConditions struct {
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Visibility    float64   `json:"visibility"`
	Weather       Condition `json:"weather"`
	Sunrise       string    `json:"sunrise"`
	Sunset        string    `json:"sunset"`
	DateTime      string    `json:"datetime"`
}

type HourSample struct {
	Time        string    `json:"time"`
	Temperature float64   `json:"temperature"`
	Weather     Condition `json:"weather"`
}

type DaySample struct {
	Date    string    `json:"date"`
	Day     string    `json:"day"`
	Weather Condition `json:"weather"`
	TempMin float64   `json:"temp_min"`
	TempMax float64   `json:"temp_max"`
}

// WeatherPayload is the body of a successful /weather response.
type WeatherPayload struct {
	Current CurrentConditions `json:"current"`
	Hourly  []HourSample      `json:"hourly"`
	Daily   []DaySample       `json:"daily"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
