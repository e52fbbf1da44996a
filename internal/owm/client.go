package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an OpenWeatherMap client. An empty apiKey puts the client in
// mock mode, serving generated data for a fixed set of cities.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "owm")
	return c
}

// StatusError is returned for any non-200 upstream response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Body)
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func isAuthFailure(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden
}

func (c *Client) Mock() bool {
	return c.apiKey == ""
}

func (c *Client) CurrentByCity(ctx context.Context, city string) (*CurrentResponse, error) {
	if c.Mock() {
		return mockCurrentByCity(city, c.now())
	}
	var out CurrentResponse
	err := c.get(ctx, "weather", url.Values{"q": {city}}, &out)
	if isAuthFailure(err) {
		// Keep the page usable while a key is invalid or not yet activated.
		c.logger.Warn("api key rejected, serving mock data", "error", err)
		return mockCurrentByCity(city, c.now())
	}
	if err != nil {
		return nil, fmt.Errorf("fetching current weather: %w", err)
	}
	return &out, nil
}

func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*CurrentResponse, error) {
	if c.Mock() {
		return mockCurrentByCoords(lat, lon, c.now()), nil
	}
	var out CurrentResponse
	err := c.get(ctx, "weather", coordParams(lat, lon), &out)
	if isAuthFailure(err) {
		c.logger.Warn("api key rejected, serving mock data", "error", err)
		return mockCurrentByCoords(lat, lon, c.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching current weather: %w", err)
	}
	return &out, nil
}

func (c *Client) ForecastByCity(ctx context.Context, city string) (*ForecastResponse, error) {
	if c.Mock() {
		return mockForecastByCity(city, c.now())
	}
	var out ForecastResponse
	err := c.get(ctx, "forecast", url.Values{"q": {city}}, &out)
	if isAuthFailure(err) {
		return mockForecastByCity(city, c.now())
	}
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	return &out, nil
}

func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	if c.Mock() {
		return mockForecastByCoords(lat, lon, c.now()), nil
	}
	var out ForecastResponse
	err := c.get(ctx, "forecast", coordParams(lat, lon), &out)
	if isAuthFailure(err) {
		return mockForecastByCoords(lat, lon, c.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	return &out, nil
}

func coordParams(lat, lon float64) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)
	u := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
