// Package termview prints controller output to a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/PetoAdam/homenavi/weather-app/internal/ui"
)

var glyphs = map[ui.Icon]string{
	ui.IconSun:          "☀",
	ui.IconCloud:        "☁",
	ui.IconCloudRain:    "☂",
	ui.IconDrizzle:      "☂",
	ui.IconThunderstorm: "⚡",
	ui.IconSnowflake:    "❄",
	ui.IconSmog:         "≋",
	ui.IconWind:         "≈",
	ui.IconTornado:      "@",
}

// Glyph returns a one-character stand-in for icon.
func Glyph(icon ui.Icon) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return glyphs[ui.IconSun]
}

// View implements ui.View. Slots are buffered and printed when a panel
// becomes visible, so each transition produces one block of output.
type View struct {
	w     io.Writer
	err   error
	place string
	text  map[ui.Slot]string
	icon  ui.Icon
	msg   string

	hourly []ui.HourItem
	daily  []ui.DayItem
}

func New(w io.Writer) *View {
	return &View{w: w, text: make(map[ui.Slot]string)}
}

// Err returns the first write error, if any.
func (v *View) Err() error { return v.err }

func (v *View) SetPanelHidden(p ui.Panel, hidden bool) {
	if hidden {
		return
	}
	switch p {
	case ui.PanelLoading:
		v.printf("Loading weather data...\n")
	case ui.PanelError:
		v.printf("Error: %s\n", v.msg)
	case ui.PanelContent:
		v.printContent()
	}
}

func (v *View) SetErrorMessage(msg string)        { v.msg = msg }
func (v *View) PlaceName() string                 { return v.place }
func (v *View) SetPlaceName(name string)          { v.place = name }
func (v *View) SetText(slot ui.Slot, text string) { v.text[slot] = text }
func (v *View) SetIcon(icon ui.Icon)              { v.icon = icon }
func (v *View) ClearHourly()                      { v.hourly = v.hourly[:0] }
func (v *View) AppendHourly(item ui.HourItem)     { v.hourly = append(v.hourly, item) }
func (v *View) ClearDaily()                       { v.daily = v.daily[:0] }
func (v *View) AppendDaily(item ui.DayItem)       { v.daily = append(v.daily, item) }

func (v *View) printContent() {
	t := v.text
	v.printf("\n%s\n%s\n\n", t[ui.SlotCityName], t[ui.SlotDateTime])
	v.printf("  %s  %s  %s\n\n", Glyph(v.icon), t[ui.SlotCurrentTemp], t[ui.SlotWeatherDesc])

	tw := tabwriter.NewWriter(v.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Feels like\t%s°C\tHumidity\t%s\n", t[ui.SlotFeelsLike], t[ui.SlotHumidity])
	fmt.Fprintf(tw, "  Sunrise\t%s\tWind\t%s\n", t[ui.SlotSunrise], t[ui.SlotWindSpeed])
	fmt.Fprintf(tw, "  Sunset\t%s\tPressure\t%s\n", t[ui.SlotSunset], t[ui.SlotPressure])
	fmt.Fprintf(tw, "  \t\tVisibility\t%s\n", t[ui.SlotVisibility])
	v.flush(tw)

	if len(v.hourly) > 0 {
		v.printf("\nHourly\n")
		times := make([]string, len(v.hourly))
		icons := make([]string, len(v.hourly))
		temps := make([]string, len(v.hourly))
		for i, h := range v.hourly {
			times[i], icons[i], temps[i] = h.Time, Glyph(h.Icon), h.Temperature
		}
		tw = tabwriter.NewWriter(v.w, 0, 4, 2, ' ', 0)
		for _, row := range [][]string{times, icons, temps} {
			fmt.Fprintf(tw, "  %s\t\n", strings.Join(row, "\t"))
		}
		v.flush(tw)
	}

	if len(v.daily) > 0 {
		v.printf("\nDaily\n")
		tw = tabwriter.NewWriter(v.w, 0, 4, 2, ' ', 0)
		for _, d := range v.daily {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t\n", d.Day, Glyph(d.Icon), d.Description, d.Max, d.Min)
		}
		v.flush(tw)
	}
	v.printf("\n")
}

func (v *View) printf(format string, args ...any) {
	if v.err != nil {
		return
	}
	_, v.err = fmt.Fprintf(v.w, format, args...)
}

func (v *View) flush(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil && v.err == nil {
		v.err = err
	}
}
