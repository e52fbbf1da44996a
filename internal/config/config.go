package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	OWM     OWMConfig     `mapstructure:"owm"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	Tracing TracingConfig `mapstructure:"tracing"`
	UI      UIConfig      `mapstructure:"ui"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

type OWMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the lookup history database. Driver is sqlite or
// postgres; an empty DSN with sqlite uses a local file.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig enables rate limiting when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	RPS      int    `mapstructure:"rps"`
	Burst    int    `mapstructure:"burst"`
}

// MQTTConfig enables publication of current conditions when Broker is set.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

type UIConfig struct {
	BackendURL   string        `mapstructure:"backend_url"`
	DefaultPlace string        `mapstructure:"default_place"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
}

// FlagBinding maps a command line flag onto a config key.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("owm.api_key", "")
	v.SetDefault("owm.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("owm.timeout", 10*time.Second)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.rps", 5)
	v.SetDefault("redis.burst", 10)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "weather-app")
	v.SetDefault("mqtt.topic_prefix", "homenavi/weather/current")
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.service_name", "weather-app")
	v.SetDefault("ui.backend_url", "http://localhost:8080")
	v.SetDefault("ui.default_place", "Delhi")
	v.SetDefault("ui.initial_delay", time.Second)
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. With an empty path config.yaml is looked up in . and ./config
// and may be absent. Environment variables use the WEATHER_APP_ prefix with
// dots replaced by underscores; PORT and OPENWEATHER_API_KEY are honoured too.
func Load(path string, flags ...FlagBinding) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WEATHER_APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "WEATHER_APP_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("owm.api_key", "WEATHER_APP_OWM_API_KEY", "OPENWEATHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	for _, fb := range flags {
		if fb.Flag == nil {
			continue
		}
		if err := v.BindPFlag(fb.Key, fb.Flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", fb.Flag.Name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address in the form ":port".
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger builds a slog.Logger writing to w at the configured level and
// format. Unknown values fall back to info and text.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
