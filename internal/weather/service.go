package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PetoAdam/homenavi/weather-app/internal/forecast"
	"github.com/PetoAdam/homenavi/weather-app/internal/models"
	"github.com/PetoAdam/homenavi/weather-app/internal/observability"
	"github.com/PetoAdam/homenavi/weather-app/internal/owm"
	"github.com/PetoAdam/homenavi/weather-app/internal/store"
)

const (
	MsgEmptyPlace         = "Please enter a city name"
	MsgInvalidCoordinates = "Invalid coordinates"
	MsgCityNotFound       = "City not found"
	MsgLocationNotFound   = "Location not found"
	MsgFetchFailed        = "Failed to fetch weather data"

	publishTimeout = 2 * time.Second
)

// Provider is the upstream weather source.
type Provider interface {
	CurrentByCity(ctx context.Context, city string) (*owm.CurrentResponse, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*owm.CurrentResponse, error)
	ForecastByCity(ctx context.Context, city string) (*owm.ForecastResponse, error)
	ForecastByCoords(ctx context.Context, lat, lon float64) (*owm.ForecastResponse, error)
}

// Recorder persists lookup history.
type Recorder interface {
	RecordLookup(ctx context.Context, l *store.Lookup) error
}

// Publisher forwards current conditions to other consumers.
type Publisher interface {
	PublishCurrent(ctx context.Context, cur models.CurrentConditions) error
}

// Error is returned by Service for every failed lookup. Message is safe to
// show to end users; Err carries the cause for logs.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var we *Error
	if errors.As(err, &we) {
		return we.Status
	}
	return http.StatusInternalServerError
}

type Service struct {
	provider  Provider
	recorder  Recorder
	publisher Publisher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{provider: provider, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "weather-service")
	return s
}

// ByPlace looks up weather for a place name.
func (s *Service) ByPlace(ctx context.Context, name string) (*models.WeatherPayload, error) {
	name = strings.TrimSpace(name)
	lookup := &store.Lookup{Kind: store.KindPlace, Query: name}
	if name == "" {
		return nil, s.finish(ctx, lookup, nil, &Error{Status: http.StatusBadRequest, Message: MsgEmptyPlace})
	}

	payload, err := s.fetch(ctx,
		func(ctx context.Context) (*owm.CurrentResponse, error) { return s.provider.CurrentByCity(ctx, name) },
		func(ctx context.Context) (*owm.ForecastResponse, error) { return s.provider.ForecastByCity(ctx, name) },
	)
	if err != nil {
		return nil, s.finish(ctx, lookup, nil, classify(err, MsgCityNotFound))
	}
	return payload, s.finish(ctx, lookup, payload, nil)
}

// ByCoordinates looks up weather for a latitude/longitude pair.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	lookup := &store.Lookup{
		Kind:  store.KindCoords,
		Query: strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64),
	}
	// Written this way so NaN fails too.
	if !(lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180) {
		return nil, s.finish(ctx, lookup, nil, &Error{Status: http.StatusBadRequest, Message: MsgInvalidCoordinates})
	}
	lookup.Lat, lookup.Lon = &lat, &lon

	payload, err := s.fetch(ctx,
		func(ctx context.Context) (*owm.CurrentResponse, error) { return s.provider.CurrentByCoords(ctx, lat, lon) },
		func(ctx context.Context) (*owm.ForecastResponse, error) { return s.provider.ForecastByCoords(ctx, lat, lon) },
	)
	if err != nil {
		return nil, s.finish(ctx, lookup, nil, classify(err, MsgLocationNotFound))
	}
	return payload, s.finish(ctx, lookup, payload, nil)
}

// fetch runs both upstream calls concurrently; the first failure cancels the other.
func (s *Service) fetch(
	ctx context.Context,
	current func(context.Context) (*owm.CurrentResponse, error),
	fc func(context.Context) (*owm.ForecastResponse, error),
) (*models.WeatherPayload, error) {
	var (
		cur *owm.CurrentResponse
		f   *owm.ForecastResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = current(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		f, err = fc(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payload, err := forecast.Build(cur, f, s.now())
	if err != nil {
		return nil, fmt.Errorf("building payload: %w", err)
	}
	return payload, nil
}

func classify(err error, notFoundMsg string) *Error {
	if owm.IsNotFound(err) {
		return &Error{Status: http.StatusNotFound, Message: notFoundMsg, Err: err}
	}
	return &Error{Status: http.StatusBadGateway, Message: MsgFetchFailed, Err: err}
}

// finish records and publishes the outcome. Side effects are best effort and
// never change the lookup result.
func (s *Service) finish(ctx context.Context, lookup *store.Lookup, payload *models.WeatherPayload, lookupErr *Error) error {
	status := http.StatusOK
	if lookupErr != nil {
		status = lookupErr.Status
		if lookupErr.Err != nil {
			s.logger.Warn("weather lookup failed", "kind", lookup.Kind, "query", lookup.Query, "status", status, "error", lookupErr.Err)
		}
	}
	observability.RecordLookup(lookup.Kind, status)

	lookup.Status = status
	if payload != nil {
		lookup.City = payload.Current.City
		lookup.Country = payload.Current.Country
	}
	if s.recorder != nil {
		if err := s.recorder.RecordLookup(ctx, lookup); err != nil {
			s.logger.Error("failed to record lookup", "error", err)
		}
	}
	if payload != nil && s.publisher != nil {
		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishCurrent(pctx, payload.Current); err != nil {
			s.logger.Error("failed to publish current conditions", "city", payload.Current.City, "error", err)
		}
	}

	if lookupErr != nil {
		return lookupErr
	}
	return nil
}
