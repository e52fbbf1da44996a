// Package forecast turns raw OpenWeatherMap responses into the payload served
// by the weather endpoints.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
	"github.com/PetoAdam/homenavi/weather-app/internal/owm"
)

const (
	HourlySamples = 8 // 24 hours in 3-hour steps
	DailySamples  = 5
)

var ErrMissingData = errors.New("missing upstream data")

// Build assembles a WeatherPayload. All clock times are expressed in the
// location's own UTC offset as reported upstream.
func Build(cur *owm.CurrentResponse, fc *owm.ForecastResponse, now time.Time) (*models.WeatherPayload, error) {
	if cur == nil || fc == nil {
		return nil, ErrMissingData
	}

	loc := time.FixedZone(cur.Name, cur.Timezone)

	payload := &models.WeatherPayload{
		Current: models.CurrentConditions{
			City:          cur.Name,
			Country:       cur.Sys.Country,
			Temperature:   math.RoundToEven(cur.Main.Temp),
			FeelsLike:     math.RoundToEven(cur.Main.FeelsLike),
			Humidity:      cur.Main.Humidity,
			Pressure:      cur.Main.Pressure,
			WindSpeed:     cur.Wind.Speed,
			WindDirection: cur.Wind.Deg,
			Visibility:    cur.Visibility / 1000,
			Weather:       first(cur.Weather),
			Sunrise:       clock(cur.Sys.Sunrise, loc),
			Sunset:        clock(cur.Sys.Sunset, loc),
			DateTime:      now.In(loc).Format("2006-01-02 15:04"),
		},
		Hourly: Hourly(fc.List, loc),
		Daily:  Daily(fc.List, loc),
	}
	return payload, nil
}

// Hourly returns the first HourlySamples entries.
func Hourly(entries []owm.ForecastEntry, loc *time.Location) []models.HourSample {
	n := min(len(entries), HourlySamples)
	out := make([]models.HourSample, 0, n)
	for _, e := range entries[:n] {
		out = append(out, models.HourSample{
			Time:        clock(e.Dt, loc),
			Temperature: math.RoundToEven(e.Main.Temp),
			Weather:     first(e.Weather),
		})
	}
	return out
}

// Daily groups entries by local calendar date in arrival order. A day keeps
// the condition of its first entry and the extremes of all of its entries.
func Daily(entries []owm.ForecastEntry, loc *time.Location) []models.DaySample {
	out := make([]models.DaySample, 0, DailySamples)
	var cur *models.DaySample
	for _, e := range entries {
		t := time.Unix(e.Dt, 0).In(loc)
		date := t.Format("2006-01-02")
		if cur == nil || cur.Date != date {
			if cur != nil {
				out = append(out, *cur)
				if len(out) == DailySamples {
					return out
				}
			}
			cur = &models.DaySample{
				Date:    date,
				Day:     t.Weekday().String(),
				Weather: first(e.Weather),
				TempMin: e.Main.TempMin,
				TempMax: e.Main.TempMax,
			}
			continue
		}
		cur.TempMin = math.Min(cur.TempMin, e.Main.TempMin)
		cur.TempMax = math.Max(cur.TempMax, e.Main.TempMax)
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func first(conds []models.Condition) models.Condition {
	if len(conds) == 0 {
		return models.Condition{}
	}
	return conds[0]
}

func clock(unix int64, loc *time.Location) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).In(loc).Format("15:04")
}
