package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	otelmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total requests by service, endpoint, method, and status.",
		},
		[]string{"service", "endpoint", "method", "status"},
	)
	lookupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Weather lookups by kind (place, coords) and outcome status.",
		},
		[]string{"kind", "status"},
	)
)

func init() { prometheus.MustRegister(requestCounter, lookupCounter) }

// RecordLookup counts one weather lookup.
func RecordLookup(kind string, status int) {
	lookupCounter.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// Setup installs the global tracer and meter providers. Traces are exported
// over OTLP/HTTP only when otlpEndpoint is set.
func Setup(ctx context.Context, serviceName, otlpEndpoint string) (shutdown func(context.Context) error, promHandler http.Handler, tracer oteltrace.Tracer, err error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	promExporter, err := otelprom.New()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	meterProvider := otelmetric.NewMeterProvider(otelmetric.WithReader(promExporter))
	otel.SetMeterProvider(meterProvider)

	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	var tp *trace.TracerProvider
	if otlpEndpoint != "" {
		exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(otlpEndpoint))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		tp = trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
		slog.Info("tracing enabled", "endpoint", otlpEndpoint)
	} else {
		tp = trace.NewTracerProvider(trace.WithResource(res))
	}
	otel.SetTracerProvider(tp)

	shutdown = func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return err
		}
		return meterProvider.Shutdown(ctx)
	}
	return shutdown, promhttp.Handler(), otel.Tracer(serviceName), nil
}

// MetricsAndTracingMiddleware starts a span per request and counts it by route
// pattern so path parameters do not explode label cardinality.
func MetricsAndTracingMiddleware(tracer oteltrace.Tracer, serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			method := r.Method
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx, span := tracer.Start(ctx, method+" "+r.URL.Path)
			span.SetAttributes(
				attribute.String("http.method", method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("service.name", serviceName),
			)
			if rid := middleware.GetReqID(ctx); rid != "" {
				span.SetAttributes(attribute.String("http.request_id", rid))
			}
			w.Header().Set("Trace-ID", span.SpanContext().TraceID().String())

			next.ServeHTTP(rw, r.WithContext(ctx))

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			span.SetName(method + " " + endpoint)
			span.SetAttributes(attribute.Int("http.status_code", rw.status))
			requestCounter.WithLabelValues(serviceName, endpoint, method, strconv.Itoa(rw.status)).Inc()
			span.End()
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
