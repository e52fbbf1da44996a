package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PetoAdam/homenavi/weather-app/internal/geo"
	"github.com/PetoAdam/homenavi/weather-app/internal/htmlview"
	"github.com/PetoAdam/homenavi/weather-app/internal/models"
	"github.com/PetoAdam/homenavi/weather-app/internal/store"
	"github.com/PetoAdam/homenavi/weather-app/internal/ui"
	"github.com/PetoAdam/homenavi/weather-app/internal/weather"
)

// WeatherService resolves lookups. Errors of type *weather.Error carry the
// response status and message.
type WeatherService interface {
	ByPlace(ctx context.Context, name string) (*models.WeatherPayload, error)
	ByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error)
}

type History interface {
	Recent(ctx context.Context, limit int) ([]store.Lookup, error)
}

type Server struct {
	weather      WeatherService
	history      History
	defaultPlace string
	now          func() time.Time
	logger       *slog.Logger
}

type Option func(*Server)

func WithHistory(h History) Option { return func(s *Server) { s.history = h } }

func WithDefaultPlace(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.defaultPlace = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewServer(svc WeatherService, opts ...Option) *Server {
	s := &Server{
		weather:      svc,
		defaultPlace: ui.DefaultPlace,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "httpapi")
	return s
}

// RegisterRoutes mounts the API and the page. limit wraps the routes that
// reach the upstream weather provider.
func (s *Server) RegisterRoutes(r chi.Router, limit ...func(http.Handler) http.Handler) {
	r.Get("/health", s.handleHealth)
	r.Get("/lookups/recent", s.handleRecent)

	r.Group(func(r chi.Router) {
		r.Use(limit...)
		r.Get("/", s.handlePage)
		r.Get("/weather/coords/{lat}/{lon}", s.handleWeatherByCoords)
		r.Get("/weather/{city}", s.handleWeatherByPlace)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := weather.StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("unexpected lookup error", "error", err)
		msg = weather.MsgFetchFailed
	}
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWeatherByPlace(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	// chi routes on RawPath when the request carried escapes such as %2F.
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(city)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid city name"})
			return
		}
		city = decoded
	}

	payload, err := s.weather.ByPlace(r.Context(), city)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleWeatherByCoords(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(chi.URLParam(r, "lat"), 64)
	lon, lonErr := strconv.ParseFloat(chi.URLParam(r, "lon"), 64)
	if latErr != nil || lonErr != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: weather.MsgInvalidCoordinates})
		return
	}

	payload, err := s.weather.ByCoordinates(r.Context(), lat, lon)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "lookup history is disabled"})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = l
	}

	lookups, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list lookups", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list lookups"})
		return
	}
	if lookups == nil {
		lookups = []store.Lookup{}
	}
	writeJSON(w, http.StatusOK, lookups)
}

// handlePage runs one controller action against an HTML document and returns
// the resulting page:
//
//	?city=NAME              search by place name
//	?lat=..&lon=..          search by coordinates
//	?locate=1[&lat=&lon=]   use the position the browser submitted, if any
//	?locate=1&geo_error=N   report the browser's geolocation error code
//	(none)                  load the default place
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doc := htmlview.New()
	opts := []ui.Option{
		ui.WithInitialDelay(0),
		ui.WithDefaultPlace(s.defaultPlace),
		ui.WithClock(s.now),
		ui.WithLogger(s.logger),
	}
	hasCoords := q.Has("lat") || q.Has("lon")
	if q.Get("locate") != "" {
		switch {
		case hasCoords:
			opts = append(opts, ui.WithGeolocator(geo.Static{Lat: queryFloat(q, "lat"), Lon: queryFloat(q, "lon")}))
		case q.Has("geo_error"):
			// Unknown or malformed codes map to the generic location failure.
			code, _ := strconv.Atoi(q.Get("geo_error"))
			opts = append(opts, ui.WithGeolocator(geo.Failed{Code: ui.PositionErrorCode(code)}))
		}
	}
	c := ui.NewController(doc, s.weather, opts...)

	ctx := r.Context()
	switch {
	case q.Get("locate") != "":
		c.UseCurrentLocation(ctx)
	case hasCoords:
		c.SearchByCoordinates(ctx, queryFloat(q, "lat"), queryFloat(q, "lon"))
	case q.Has("city"):
		doc.SetPlaceName(q.Get("city"))
		c.Search(ctx)
	default:
		c.Initialize(ctx)
	}

	var buf bytes.Buffer
	if err := doc.WriteHTML(&buf); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// queryFloat returns NaN for missing or malformed values, which the weather
// service rejects as invalid coordinates.
func queryFloat(q url.Values, key string) float64 {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
