// Package htmlview renders the weather page from the state a ui.Controller
// leaves in a Document.
package htmlview

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/PetoAdam/homenavi/weather-app/internal/ui"
)

//go:embed page.html
var pageHTML string

var page = template.Must(template.New("page").Funcs(template.FuncMap{"glyph": glyph}).Parse(pageHTML))

// The free Font Awesome set the page loads lacks some of the controller's
// icons; those are drawn with the closest free glyph.
var freeGlyphs = map[ui.Icon]string{
	ui.IconDrizzle:      "fas fa-cloud-rain",
	ui.IconThunderstorm: "fas fa-bolt",
}

func glyph(icon ui.Icon) string {
	if g, ok := freeGlyphs[icon]; ok {
		return g
	}
	return string(icon)
}

// Document is an in-memory page. It implements ui.View; the controller
// serialises access, so Document does no locking itself.
type Document struct {
	hidden       map[ui.Panel]bool
	errorMessage string
	placeName    string
	text         map[ui.Slot]string
	icon         ui.Icon
	hourly       []ui.HourItem
	daily        []ui.DayItem
}

// New returns a document with every panel hidden.
func New() *Document {
	d := &Document{hidden: make(map[ui.Panel]bool), text: make(map[ui.Slot]string)}
	for _, p := range ui.Panels {
		d.hidden[p] = true
	}
	return d
}

func (d *Document) SetPanelHidden(p ui.Panel, hidden bool) { d.hidden[p] = hidden }
func (d *Document) SetErrorMessage(msg string)            { d.errorMessage = msg }
func (d *Document) PlaceName() string                     { return d.placeName }
func (d *Document) SetPlaceName(name string)              { d.placeName = name }
func (d *Document) SetText(slot ui.Slot, text string)     { d.text[slot] = text }
func (d *Document) SetIcon(icon ui.Icon)                  { d.icon = icon }
func (d *Document) ClearHourly()                          { d.hourly = d.hourly[:0] }
func (d *Document) AppendHourly(item ui.HourItem)         { d.hourly = append(d.hourly, item) }
func (d *Document) ClearDaily()                           { d.daily = d.daily[:0] }
func (d *Document) AppendDaily(item ui.DayItem)           { d.daily = append(d.daily, item) }

// Hidden reports whether panel p is hidden.
func (d *Document) Hidden(p ui.Panel) bool { return d.hidden[p] }

// Text returns the content of a slot.
func (d *Document) Text(slot ui.Slot) string { return d.text[slot] }

type pageData struct {
	PlaceName     string
	LoadingHidden bool
	ErrorHidden   bool
	ContentHidden bool
	ErrorMessage  string
	Text          map[string]string
	Icon          ui.Icon
	Hourly        []ui.HourItem
	Daily         []ui.DayItem
}

// WriteHTML renders the document as a full HTML page.
func (d *Document) WriteHTML(w io.Writer) error {
	data := pageData{
		PlaceName:     d.placeName,
		LoadingHidden: d.hidden[ui.PanelLoading],
		ErrorHidden:   d.hidden[ui.PanelError],
		ContentHidden: d.hidden[ui.PanelContent],
		ErrorMessage:  d.errorMessage,
		Text:          make(map[string]string, len(d.text)),
		Icon:          d.icon,
		Hourly:        d.hourly,
		Daily:         d.daily,
	}
	for slot, v := range d.text {
		data.Text[string(slot)] = v
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
