package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

const (
	MsgEmptyPlace          = "Please enter a city name"
	MsgFetchFailed         = "Failed to fetch weather data"
	MsgGeoUnsupported      = "Geolocation is not supported by this browser"
	MsgPermissionDenied    = "Location access denied by user"
	MsgPositionUnavailable = "Location information is unavailable"
	MsgLocationTimeout     = "Location request timed out"
	MsgLocationFailed      = "Unable to retrieve your location"

	DefaultPlace        = "Delhi"
	DefaultInitialDelay = 1000 * time.Millisecond
)

// Fetcher loads weather data. The text of a returned error is shown to the
// user as is.
type Fetcher interface {
	ByPlace(ctx context.Context, name string) (*models.WeatherPayload, error)
	ByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error)
}

// Controller binds user actions to fetches and keeps exactly one panel of
// the view visible.
//
// A new search supersedes the one in flight: the older request's context is
// cancelled and its result, if it still arrives, is dropped.
type Controller struct {
	view         View
	fetcher      Fetcher
	geo          Geolocator
	now          func() time.Time
	initialDelay time.Duration
	defaultPlace string
	logger       *slog.Logger

	mu     sync.Mutex
	state  PanelState
	gen    uint64
	cancel context.CancelFunc
}

type Option func(*Controller)

// WithGeolocator enables UseCurrentLocation. Without it the capability is
// reported as unsupported.
func WithGeolocator(g Geolocator) Option { return func(c *Controller) { c.geo = g } }

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithInitialDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.initialDelay = d
		}
	}
}

func WithDefaultPlace(name string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(name) != "" {
			c.defaultPlace = name
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(view View, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		view:         view,
		fetcher:      fetcher,
		now:          time.Now,
		initialDelay: DefaultInitialDelay,
		defaultPlace: DefaultPlace,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "ui")
	return c
}

// State reports the panel currently shown.
func (c *Controller) State() PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Initialize fills in the default place and searches for it after the
// initial delay.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	c.view.SetPlaceName(c.defaultPlace)
	c.mu.Unlock()

	if c.initialDelay > 0 {
		t := time.NewTimer(c.initialDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
	c.SearchByPlaceName(ctx, c.defaultPlace)
}

// Search runs a place search for whatever is in the place-name input.
func (c *Controller) Search(ctx context.Context) {
	c.mu.Lock()
	name := c.view.PlaceName()
	c.mu.Unlock()
	c.SearchByPlaceName(ctx, name)
}

func (c *Controller) SearchByPlaceName(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	ctx, gen := c.begin(ctx)
	if name == "" {
		c.complete(gen, nil, errors.New(MsgEmptyPlace), false)
		return
	}
	if !c.show(gen, PanelState{Panel: PanelLoading}) {
		return
	}
	payload, err := c.fetcher.ByPlace(ctx, name)
	c.complete(gen, payload, err, false)
}

// SearchByCoordinates behaves like SearchByPlaceName and also copies the
// resolved city into the place-name input.
func (c *Controller) SearchByCoordinates(ctx context.Context, lat, lon float64) {
	ctx, gen := c.begin(ctx)
	if !c.show(gen, PanelState{Panel: PanelLoading}) {
		return
	}
	c.searchCoordinates(ctx, gen, lat, lon)
}

func (c *Controller) searchCoordinates(ctx context.Context, gen uint64, lat, lon float64) {
	payload, err := c.fetcher.ByCoordinates(ctx, lat, lon)
	c.complete(gen, payload, err, true)
}

func (c *Controller) UseCurrentLocation(ctx context.Context) {
	ctx, gen := c.begin(ctx)
	if c.geo == nil {
		c.complete(gen, nil, errors.New(MsgGeoUnsupported), false)
		return
	}
	if !c.show(gen, PanelState{Panel: PanelLoading}) {
		return
	}

	pos, err := c.geo.CurrentPosition(ctx)
	if err != nil {
		var pe *PositionError
		if !errors.As(err, &pe) {
			c.logger.Warn("geolocation failed", "error", err)
			pe = &PositionError{Err: err}
		}
		c.complete(gen, nil, errors.New(PositionMessage(pe.Code)), false)
		return
	}
	if !c.current(gen) {
		return
	}
	c.searchCoordinates(ctx, gen, pos.Latitude, pos.Longitude)
}

// Render writes payload into the view without touching the panels.
func (c *Controller) Render(payload *models.WeatherPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render(c.view, payload, c.now())
}

// begin starts a new generation and cancels the request in flight.
func (c *Controller) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	c.cancel = cancel
	return ctx, c.gen
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Controller) show(gen uint64, st PanelState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.setPanel(st)
	return true
}

// complete applies the outcome of generation gen, or drops it when a newer
// action has started since.
func (c *Controller) complete(gen uint64, payload *models.WeatherPayload, err error, fromCoords bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("dropping stale result", "generation", gen, "current", c.gen)
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err == nil {
		err = render(c.view, payload, c.now())
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgFetchFailed
		}
		c.setPanel(PanelState{Panel: PanelError, Message: msg})
		return
	}
	c.setPanel(PanelState{Panel: PanelContent})
	if fromCoords {
		c.view.SetPlaceName(payload.Current.City)
	}
}

// setPanel hides every panel, then shows the target. Callers hold mu.
func (c *Controller) setPanel(st PanelState) {
	for _, p := range Panels {
		c.view.SetPanelHidden(p, true)
	}
	if st.Panel == PanelError {
		c.view.SetErrorMessage(st.Message)
	}
	if st.Panel != PanelNone {
		c.view.SetPanelHidden(st.Panel, false)
	}
	c.state = st
}
