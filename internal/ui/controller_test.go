package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

var fixedNow = time.Date(2026, 10, 15, 14, 5, 0, 0, time.UTC)

func payloadFor(city string) *models.WeatherPayload {
	p := &models.WeatherPayload{
		Current: models.CurrentConditions{
			City:        city,
			Country:     "FR",
			Temperature: 20,
			FeelsLike:   19,
			Humidity:    65,
			Pressure:    1013,
			WindSpeed:   3.6,
			Visibility:  10,
			Weather:     models.Condition{Main: "Clouds", Description: "broken clouds"},
			Sunrise:     "07:54",
			Sunset:      "18:48",
		},
	}
	for i, t := range []string{"15:00", "18:00", "21:00"} {
		p.Hourly = append(p.Hourly, models.HourSample{
			Time:        t,
			Temperature: float64(20 - i),
			Weather:     models.Condition{Main: "Rain", Description: "light rain"},
		})
	}
	for i, d := range []string{"Thursday", "Friday", "Saturday", "Sunday", "Monday"} {
		p.Daily = append(p.Daily, models.DaySample{
			Day:     d,
			TempMax: 21.5 + float64(i),
			TempMin: 10.4,
			Weather: models.Condition{Main: "Clear", Description: "clear sky"},
		})
	}
	return p
}

type fakeFetcher struct {
	mu      sync.Mutex
	payload *models.WeatherPayload
	err     error
	places  []string
	coords  [][2]float64
}

func (f *fakeFetcher) ByPlace(_ context.Context, name string) (*models.WeatherPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.places = append(f.places, name)
	return f.payload, f.err
}

func (f *fakeFetcher) ByCoordinates(_ context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coords = append(f.coords, [2]float64{lat, lon})
	return f.payload, f.err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.places) + len(f.coords)
}

type fakeGeolocator struct {
	pos Position
	err error
}

func (g fakeGeolocator) CurrentPosition(context.Context) (Position, error) { return g.pos, g.err }

func newTestController(f Fetcher, opts ...Option) (*Controller, *recordingView) {
	v := newRecordingView()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewController(v, f, opts...), v
}

func assertShown(t *testing.T, v *recordingView, want ...Panel) {
	t.Helper()
	if len(v.violated) > 0 {
		t.Fatalf("single panel invariant violated: %v", v.violated)
	}
	if len(v.shown) != len(want) {
		t.Fatalf("shown panels = %v, want %v", v.shown, want)
	}
	for i := range want {
		if v.shown[i] != want[i] {
			t.Fatalf("shown panels = %v, want %v", v.shown, want)
		}
	}
	if vis := v.visible(); len(vis) != 1 || vis[0] != want[len(want)-1] {
		t.Fatalf("visible panels = %v, want only %s", vis, want[len(want)-1])
	}
}

func TestSearchByPlaceNameRendersContent(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Paris")}
	c, v := newTestController(f)

	c.SearchByPlaceName(context.Background(), "Paris")

	assertShown(t, v, PanelLoading, PanelContent)
	if st := c.State(); st.Panel != PanelContent {
		t.Fatalf("state = %+v, want content", st)
	}
	if got := v.texts[SlotCityName]; got != "Paris, FR" {
		t.Fatalf("city label = %q", got)
	}
	if len(v.hourly) != 3 || len(v.daily) != 5 {
		t.Fatalf("got %d hourly and %d daily items, want 3 and 5", len(v.hourly), len(v.daily))
	}
	if len(f.places) != 1 || f.places[0] != "Paris" {
		t.Fatalf("unexpected fetches %v", f.places)
	}
}

func TestSearchByPlaceNameRejectsBlank(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		f := &fakeFetcher{payload: payloadFor("Paris")}
		c, v := newTestController(f)

		c.SearchByPlaceName(context.Background(), name)

		assertShown(t, v, PanelError)
		if v.errMsg != MsgEmptyPlace {
			t.Fatalf("error message = %q", v.errMsg)
		}
		if f.calls() != 0 {
			t.Fatalf("blank name %q must not fetch", name)
		}
		if st := c.State(); st.Panel != PanelError || st.Message != MsgEmptyPlace {
			t.Fatalf("state = %+v", st)
		}
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload *models.WeatherPayload
		err     error
		want    string
	}{
		{name: "server message", err: errors.New("City not found"), want: "City not found"},
		{name: "empty message", err: errors.New(""), want: MsgFetchFailed},
		{name: "no payload", want: ErrNoPayload.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, v := newTestController(&fakeFetcher{payload: tt.payload, err: tt.err})
			c.SearchByPlaceName(context.Background(), "Atlantis")
			assertShown(t, v, PanelLoading, PanelError)
			if v.errMsg != tt.want {
				t.Fatalf("error message = %q, want %q", v.errMsg, tt.want)
			}
		})
	}
}

func TestSearchUsesPlaceInput(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("London")}
	c, v := newTestController(f)
	v.SetPlaceName("  London ")

	c.Search(context.Background())

	if len(f.places) != 1 || f.places[0] != "London" {
		t.Fatalf("unexpected fetches %v", f.places)
	}
	assertShown(t, v, PanelLoading, PanelContent)
}

func TestSearchByCoordinatesUpdatesPlaceName(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Paris")}
	c, v := newTestController(f)
	v.SetPlaceName("somewhere")

	c.SearchByCoordinates(context.Background(), 48.8566, 2.3522)

	assertShown(t, v, PanelLoading, PanelContent)
	if v.place != "Paris" {
		t.Fatalf("place input = %q, want Paris", v.place)
	}
	if len(f.coords) != 1 || f.coords[0] != [2]float64{48.8566, 2.3522} {
		t.Fatalf("unexpected coordinate fetches %v", f.coords)
	}
}

func TestSearchByCoordinatesFailureKeepsPlaceName(t *testing.T) {
	c, v := newTestController(&fakeFetcher{err: errors.New("Location not found")})
	v.SetPlaceName("Delhi")

	c.SearchByCoordinates(context.Background(), 0, 0)

	assertShown(t, v, PanelLoading, PanelError)
	if v.place != "Delhi" || v.errMsg != "Location not found" {
		t.Fatalf("place=%q err=%q", v.place, v.errMsg)
	}
}

func TestUseCurrentLocationWithoutGeolocator(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Paris")}
	c, v := newTestController(f)

	c.UseCurrentLocation(context.Background())

	assertShown(t, v, PanelError)
	if v.errMsg != MsgGeoUnsupported {
		t.Fatalf("error message = %q", v.errMsg)
	}
	if f.calls() != 0 {
		t.Fatalf("no request expected")
	}
}

func TestUseCurrentLocationErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&PositionError{Code: PermissionDenied}, "Location access denied by user"},
		{&PositionError{Code: PositionUnavailable}, "Location information is unavailable"},
		{&PositionError{Code: Timeout}, "Location request timed out"},
		{&PositionError{Code: 42}, "Unable to retrieve your location"},
		{&PositionError{}, "Unable to retrieve your location"},
		{errors.New("sensor on fire"), "Unable to retrieve your location"},
	}
	for _, tt := range tests {
		f := &fakeFetcher{payload: payloadFor("Paris")}
		c, v := newTestController(f, WithGeolocator(fakeGeolocator{err: tt.err}))

		c.UseCurrentLocation(context.Background())

		assertShown(t, v, PanelLoading, PanelError)
		if v.errMsg != tt.want {
			t.Fatalf("error %v: message = %q, want %q", tt.err, v.errMsg, tt.want)
		}
		if f.calls() != 0 {
			t.Fatalf("failed geolocation must not fetch")
		}
	}
}

func TestUseCurrentLocationSearchesCoordinates(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Paris")}
	c, v := newTestController(f, WithGeolocator(fakeGeolocator{pos: Position{Latitude: 48.85, Longitude: 2.35}}))

	c.UseCurrentLocation(context.Background())

	assertShown(t, v, PanelLoading, PanelContent)
	if len(f.coords) != 1 || f.coords[0] != [2]float64{48.85, 2.35} {
		t.Fatalf("unexpected coordinate fetches %v", f.coords)
	}
	if v.place != "Paris" {
		t.Fatalf("place input = %q", v.place)
	}
}

func TestRenderAssignsEverySlotOnce(t *testing.T) {
	c, v := newTestController(&fakeFetcher{})

	if err := c.Render(payloadFor("Paris")); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, s := range Slots {
		if v.writes[s] != 1 {
			t.Fatalf("slot %s written %d times", s, v.writes[s])
		}
	}
	if len(v.writes) != len(Slots) {
		t.Fatalf("unexpected slots written: %v", v.writes)
	}
	if len(v.shown) != 0 {
		t.Fatalf("render must not change panels, shown %v", v.shown)
	}

	want := map[Slot]string{
		SlotCityName:    "Paris, FR",
		SlotDateTime:    "Thursday, October 15, 2026 at 02:05 PM",
		SlotCurrentTemp: "20°C",
		SlotWeatherDesc: "broken clouds",
		SlotFeelsLike:   "19",
		SlotSunrise:     "07:54",
		SlotSunset:      "18:48",
		SlotHumidity:    "65%",
		SlotWindSpeed:   "3.6 m/s",
		SlotPressure:    "1013 hPa",
		SlotVisibility:  "10 km",
	}
	for s, w := range want {
		if v.texts[s] != w {
			t.Fatalf("slot %s = %q, want %q", s, v.texts[s], w)
		}
	}
	if v.icon != IconCloud {
		t.Fatalf("icon = %q", v.icon)
	}

	if h := v.hourly[1]; h.Time != "18:00" || h.Temperature != "19°" || h.Icon != IconCloudRain {
		t.Fatalf("unexpected hourly item %+v", h)
	}
	days := []string{"Thursday", "Friday", "Saturday", "Sunday", "Monday"}
	for i, d := range v.daily {
		if d.Day != days[i] {
			t.Fatalf("daily order broken at %d: %s", i, d.Day)
		}
	}
	if d := v.daily[0]; d.Max != "22°" || d.Min != "10°" || d.Description != "clear sky" || d.Icon != IconSun {
		t.Fatalf("unexpected daily item %+v", d)
	}
}

func TestRenderReplacesLists(t *testing.T) {
	c, v := newTestController(&fakeFetcher{})
	_ = c.Render(payloadFor("Paris"))

	p := payloadFor("Berlin")
	p.Hourly = p.Hourly[:1]
	p.Daily = nil
	if err := c.Render(p); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(v.hourly) != 1 || len(v.daily) != 0 {
		t.Fatalf("lists not rebuilt: %d hourly, %d daily", len(v.hourly), len(v.daily))
	}
	if v.texts[SlotCityName] != "Berlin, FR" {
		t.Fatalf("city label = %q", v.texts[SlotCityName])
	}
}

func TestRenderNilPayload(t *testing.T) {
	c, _ := newTestController(&fakeFetcher{})
	if err := c.Render(nil); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("expected ErrNoPayload, got %v", err)
	}
}

func TestInitialize(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Delhi")}
	c, v := newTestController(f, WithInitialDelay(10*time.Millisecond))

	c.Initialize(context.Background())

	if v.place != "Delhi" {
		t.Fatalf("place input = %q", v.place)
	}
	if len(f.places) != 1 || f.places[0] != "Delhi" {
		t.Fatalf("unexpected fetches %v", f.places)
	}
	assertShown(t, v, PanelLoading, PanelContent)
}

func TestInitializeCancelledDuringDelay(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Delhi")}
	c, v := newTestController(f, WithDefaultPlace("Budapest"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Initialize(ctx)

	if v.place != "Budapest" {
		t.Fatalf("place input = %q", v.place)
	}
	if f.calls() != 0 {
		t.Fatalf("cancelled initialize must not fetch")
	}
	if st := c.State(); st.Panel != PanelNone {
		t.Fatalf("state = %+v, want none", st)
	}
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(newRecordingView(), &fakeFetcher{})
	if c.initialDelay != time.Second || c.defaultPlace != "Delhi" || c.geo != nil {
		t.Fatalf("unexpected defaults delay=%v place=%q geo=%v", c.initialDelay, c.defaultPlace, c.geo)
	}
}

type slowFetcher struct {
	started chan struct{}
	release chan struct{}

	mu   sync.Mutex
	ctxs []context.Context
}

func (f *slowFetcher) ByPlace(ctx context.Context, name string) (*models.WeatherPayload, error) {
	f.mu.Lock()
	f.ctxs = append(f.ctxs, ctx)
	f.mu.Unlock()
	if name == "Slowtown" {
		close(f.started)
		<-f.release
	}
	return payloadFor(name), nil
}

func (f *slowFetcher) ByCoordinates(ctx context.Context, _, _ float64) (*models.WeatherPayload, error) {
	return f.ByPlace(ctx, "Coordville")
}

func TestNewerSearchWinsOverStaleResponse(t *testing.T) {
	f := &slowFetcher{started: make(chan struct{}), release: make(chan struct{})}
	c, v := newTestController(f)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SearchByPlaceName(context.Background(), "Slowtown")
	}()
	<-f.started

	c.SearchByPlaceName(context.Background(), "Paris")
	if got := v.texts[SlotCityName]; got != "Paris, FR" {
		t.Fatalf("city label = %q", got)
	}

	f.mu.Lock()
	first := f.ctxs[0]
	f.mu.Unlock()
	if first.Err() == nil {
		t.Fatalf("superseded request context must be cancelled")
	}

	close(f.release)
	<-done

	if got := v.texts[SlotCityName]; got != "Paris, FR" {
		t.Fatalf("stale response overwrote view: %q", got)
	}
	if st := c.State(); st.Panel != PanelContent {
		t.Fatalf("state = %+v", st)
	}
	if len(v.violated) > 0 {
		t.Fatalf("single panel invariant violated: %v", v.violated)
	}
}

func TestPanelSequenceKeepsOnePanelVisible(t *testing.T) {
	f := &fakeFetcher{payload: payloadFor("Paris")}
	c, v := newTestController(f)
	ctx := context.Background()

	c.SearchByPlaceName(ctx, "Paris")
	c.SearchByPlaceName(ctx, "")
	f.err = errors.New("City not found")
	c.SearchByPlaceName(ctx, "Atlantis")
	c.UseCurrentLocation(ctx)
	f.err = nil
	c.SearchByCoordinates(ctx, 1, 2)

	assertShown(t, v,
		PanelLoading, PanelContent,
		PanelError,
		PanelLoading, PanelError,
		PanelError,
		PanelLoading, PanelContent,
	)
}
