// Package geo provides device position sources for hosts without a browser.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PetoAdam/homenavi/weather-app/internal/ui"
)

// Static always reports the same position.
type Static struct {
	Lat float64
	Lon float64
}

func (s Static) CurrentPosition(ctx context.Context) (ui.Position, error) {
	if err := ctx.Err(); err != nil {
		return ui.Position{}, &ui.PositionError{Code: ui.Timeout, Err: err}
	}
	return ui.Position{Latitude: s.Lat, Longitude: s.Lon}, nil
}

// Failed reports a position error that was already determined elsewhere,
// such as the code a browser returned.
type Failed struct {
	Code ui.PositionErrorCode
}

func (f Failed) CurrentPosition(context.Context) (ui.Position, error) {
	return ui.Position{}, &ui.PositionError{Code: f.Code}
}

const (
	DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"
	defaultTimeout     = 5 * time.Second
)

// IPLocator estimates the position from the public IP address.
type IPLocator struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*IPLocator)

func WithURL(u string) Option {
	return func(l *IPLocator) {
		if u = strings.TrimSpace(u); u != "" {
			l.url = u
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(l *IPLocator) {
		if hc != nil {
			l.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *IPLocator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewIPLocator(opts ...Option) *IPLocator {
	l := &IPLocator{
		url: DefaultIPLookupURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "geo")
	return l
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition fails with Timeout when the deadline passes,
// PermissionDenied when the service refuses the caller and
// PositionUnavailable otherwise.
func (l *IPLocator) CurrentPosition(ctx context.Context) (ui.Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return ui.Position{}, &ui.PositionError{Code: ui.PositionUnavailable, Err: err}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Warn("ip lookup failed", "error", err)
		return ui.Position{}, &ui.PositionError{Code: classify(err), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ui.Position{}, &ui.PositionError{Code: ui.PermissionDenied, Err: fmt.Errorf("ip lookup returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return ui.Position{}, &ui.PositionError{Code: ui.PositionUnavailable, Err: fmt.Errorf("ip lookup returned status %d", resp.StatusCode)}
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ui.Position{}, &ui.PositionError{Code: ui.PositionUnavailable, Err: fmt.Errorf("decoding ip lookup: %w", err)}
	}
	if body.Status != "success" {
		return ui.Position{}, &ui.PositionError{Code: ui.PositionUnavailable, Err: fmt.Errorf("ip lookup failed: %s", body.Message)}
	}
	return ui.Position{Latitude: body.Lat, Longitude: body.Lon}, nil
}

func classify(err error) ui.PositionErrorCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return ui.Timeout
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return ui.Timeout
	}
	return ui.PositionUnavailable
}
