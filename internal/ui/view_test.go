package ui

import (
	"fmt"
	"sync"
)

// recordingView checks the single-panel invariant on every show.
type recordingView struct {
	mu       sync.Mutex
	hidden   map[Panel]bool
	errMsg   string
	place    string
	texts    map[Slot]string
	writes   map[Slot]int
	icon     Icon
	hourly   []HourItem
	daily    []DayItem
	shown    []Panel
	violated []string
}

func newRecordingView() *recordingView {
	return &recordingView{
		hidden: map[Panel]bool{PanelLoading: true, PanelError: true, PanelContent: true},
		texts:  map[Slot]string{},
		writes: map[Slot]int{},
	}
}

func (v *recordingView) SetPanelHidden(p Panel, hidden bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden[p] = hidden
	if hidden {
		return
	}
	v.shown = append(v.shown, p)
	visible := 0
	for _, h := range v.hidden {
		if !h {
			visible++
		}
	}
	if visible != 1 {
		v.violated = append(v.violated, fmt.Sprintf("%d panels visible after showing %s", visible, p))
	}
}

func (v *recordingView) SetErrorMessage(msg string) { v.errMsg = msg }
func (v *recordingView) PlaceName() string          { return v.place }
func (v *recordingView) SetPlaceName(name string)   { v.place = name }

func (v *recordingView) SetText(slot Slot, text string) {
	v.texts[slot] = text
	v.writes[slot]++
}

func (v *recordingView) SetIcon(icon Icon)          { v.icon = icon }
func (v *recordingView) ClearHourly()               { v.hourly = nil }
func (v *recordingView) AppendHourly(item HourItem) { v.hourly = append(v.hourly, item) }
func (v *recordingView) ClearDaily()                { v.daily = nil }
func (v *recordingView) AppendDaily(item DayItem)   { v.daily = append(v.daily, item) }

func (v *recordingView) visible() []Panel {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []Panel
	for _, p := range Panels {
		if !v.hidden[p] {
			out = append(out, p)
		}
	}
	return out
}
