// Package client talks to the weather backend over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

const (
	MsgFetchFailed = "Failed to fetch weather data"

	defaultTimeout = 15 * time.Second
)

// ResponseError carries the message to show for a failed request. Status is
// zero when no response was received.
type ResponseError struct {
	Status  int
	Message string
	Err     error
}

func (e *ResponseError) Error() string { return e.Message }

func (e *ResponseError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
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

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "weather-client")
	return c
}

func (c *Client) ByPlace(ctx context.Context, name string) (*models.WeatherPayload, error) {
	ctx, span := otel.Tracer("weather-client").Start(ctx, "weather-client: by-place")
	defer span.End()
	span.SetAttributes(attribute.String("place", name))

	return c.get(ctx, "/weather/"+url.PathEscape(name))
}

func (c *Client) ByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	ctx, span := otel.Tracer("weather-client").Start(ctx, "weather-client: by-coordinates")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", lat), attribute.Float64("lon", lon))

	return c.get(ctx, "/weather/coords/"+formatCoord(lat)+"/"+formatCoord(lon))
}

func (c *Client) get(ctx context.Context, path string) (*models.WeatherPayload, error) {
	span := trace.SpanFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		span.SetStatus(codes.Error, "failed to create request")
		return nil, &ResponseError{Message: MsgFetchFailed, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Warn("weather request failed", "path", path, "error", err)
		return nil, &ResponseError{Message: MsgFetchFailed, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body models.ErrorResponse
		msg := MsgFetchFailed
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && strings.TrimSpace(body.Error) != "" {
			msg = body.Error
		}
		span.SetStatus(codes.Error, msg)
		return nil, &ResponseError{Status: resp.StatusCode, Message: msg}
	}

	var payload models.WeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode response")
		return nil, &ResponseError{Status: resp.StatusCode, Message: MsgFetchFailed, Err: fmt.Errorf("decoding payload: %w", err)}
	}
	span.SetStatus(codes.Ok, "")
	return &payload, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
