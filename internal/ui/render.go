package ui

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

// Slot names a single-value display field.
type Slot string

const (
	SlotCityName    Slot = "cityName"
	SlotDateTime    Slot = "dateTime"
	SlotCurrentTemp Slot = "currentTemp"
	SlotWeatherDesc Slot = "weatherDesc"
	SlotFeelsLike   Slot = "feelsLike"
	SlotSunrise     Slot = "sunrise"
	SlotSunset      Slot = "sunset"
	SlotHumidity    Slot = "humidity"
	SlotWindSpeed   Slot = "windSpeed"
	SlotPressure    Slot = "pressure"
	SlotVisibility  Slot = "visibility"
)

// Slots lists every text slot Render writes, in render order.
var Slots = [...]Slot{
	SlotCityName, SlotDateTime, SlotCurrentTemp, SlotWeatherDesc, SlotFeelsLike,
	SlotSunrise, SlotSunset, SlotHumidity, SlotWindSpeed, SlotPressure, SlotVisibility,
}

// DateTimeLayout renders like en-US toLocaleString with long weekday and month.
const DateTimeLayout = "Monday, January 2, 2006 at 03:04 PM"

// ErrNoPayload is returned by Render when there is nothing to show.
var ErrNoPayload = errors.New("no weather data in response")

type HourItem struct {
	Time        string
	Icon        Icon
	Temperature string
}

type DayItem struct {
	Icon        Icon
	Day         string
	Description string
	Max         string
	Min         string
}

// View is the presentation surface the controller drives. Calls are
// serialised by the controller.
type View interface {
	SetPanelHidden(p Panel, hidden bool)
	SetErrorMessage(msg string)

	PlaceName() string
	SetPlaceName(name string)

	SetText(slot Slot, text string)
	SetIcon(icon Icon)

	ClearHourly()
	AppendHourly(item HourItem)
	ClearDaily()
	AppendDaily(item DayItem)
}

func render(v View, p *models.WeatherPayload, now time.Time) error {
	if p == nil {
		return ErrNoPayload
	}
	cur := p.Current

	v.SetText(SlotCityName, cur.City+", "+cur.Country)
	v.SetText(SlotDateTime, now.Format(DateTimeLayout))
	v.SetText(SlotCurrentTemp, number(cur.Temperature)+"°C")
	v.SetText(SlotWeatherDesc, cur.Weather.Description)
	v.SetText(SlotFeelsLike, number(cur.FeelsLike))
	v.SetText(SlotSunrise, cur.Sunrise)
	v.SetText(SlotSunset, cur.Sunset)
	v.SetIcon(IconFor(cur.Weather.Main))
	v.SetText(SlotHumidity, number(cur.Humidity)+"%")
	v.SetText(SlotWindSpeed, number(cur.WindSpeed)+" m/s")
	v.SetText(SlotPressure, number(cur.Pressure)+" hPa")
	v.SetText(SlotVisibility, number(cur.Visibility)+" km")

	v.ClearHourly()
	for _, h := range p.Hourly {
		v.AppendHourly(HourItem{
			Time:        h.Time,
			Icon:        IconFor(h.Weather.Main),
			Temperature: number(h.Temperature) + "°",
		})
	}

	v.ClearDaily()
	for _, d := range p.Daily {
		v.AppendDaily(DayItem{
			Icon:        IconFor(d.Weather.Main),
			Day:         d.Day,
			Description: d.Weather.Description,
			Max:         number(roundHalfUp(d.TempMax)) + "°",
			Min:         number(roundHalfUp(d.TempMin)) + "°",
		})
	}
	return nil
}

// number prints the shortest decimal form, so 20 stays "20" and 9.5 "9.5".
func number(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
