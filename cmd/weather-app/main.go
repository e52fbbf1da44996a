package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/PetoAdam/homenavi/weather-app/internal/config"
	"github.com/PetoAdam/homenavi/weather-app/internal/httpapi"
	"github.com/PetoAdam/homenavi/weather-app/internal/mqtt"
	"github.com/PetoAdam/homenavi/weather-app/internal/observability"
	"github.com/PetoAdam/homenavi/weather-app/internal/owm"
	"github.com/PetoAdam/homenavi/weather-app/internal/ratelimit"
	"github.com/PetoAdam/homenavi/weather-app/internal/store"
	"github.com/PetoAdam/homenavi/weather-app/internal/weather"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	shutdownObs, promHandler, tracer, err := observability.Setup(ctx, cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up observability", "error", err)
		os.Exit(1)
	}

	owmClient := owm.New(cfg.OWM.APIKey,
		owm.WithBaseURL(cfg.OWM.BaseURL),
		owm.WithTimeout(cfg.OWM.Timeout),
		owm.WithLogger(logger),
	)
	if owmClient.Mock() {
		slog.Warn("OPENWEATHER_API_KEY not set, serving mock weather data")
	}

	db, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		slog.Error("failed to open lookup history", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	repo, err := store.New(db)
	if err != nil {
		slog.Error("failed to migrate lookup history", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	svcOpts := []weather.Option{weather.WithRecorder(repo), weather.WithLogger(logger)}
	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix)
		if err != nil {
			slog.Warn("mqtt unavailable, current conditions will not be published", "broker", cfg.MQTT.Broker, "error", err)
		} else {
			defer pub.Close()
			svcOpts = append(svcOpts, weather.WithPublisher(pub))
		}
	}
	svc := weather.NewService(owmClient, svcOpts...)

	var limits []func(http.Handler) http.Handler
	if cfg.Redis.Addr != "" {
		redisClient := setupRedisClient(cfg.Redis)
		defer redisClient.Close()
		limiter := ratelimit.New(redisClient, "weather-app:rl", ratelimit.LimiterConfig{RPS: cfg.Redis.RPS, Burst: cfg.Redis.Burst})
		limits = append(limits, limiter.Middleware(ratelimit.KeyByIP))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(observability.MetricsAndTracingMiddleware(tracer, cfg.Tracing.ServiceName))
	r.Handle("/metrics", promHandler)

	httpapi.NewServer(svc,
		httpapi.WithHistory(repo),
		httpapi.WithDefaultPlace(cfg.UI.DefaultPlace),
		httpapi.WithLogger(logger),
	).RegisterRoutes(r, limits...)

	httpSrv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("weather-app started", "addr", httpSrv.Addr, "mock", owmClient.Mock())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := shutdownObs(shutdownCtx); err != nil {
		slog.Error("observability shutdown error", "error", err)
	}
}

func setupRedisClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if pong, err := client.Ping(ctx).Result(); err != nil {
		slog.Warn("redis unreachable, rate limiter will fail open", "addr", cfg.Addr, "error", err)
	} else {
		slog.Info("connected to redis", "pong", pong)
	}
	return client
}
