package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/PetoAdam/homenavi/weather-app/internal/client"
	"github.com/PetoAdam/homenavi/weather-app/internal/config"
	"github.com/PetoAdam/homenavi/weather-app/internal/geo"
	"github.com/PetoAdam/homenavi/weather-app/internal/termview"
	"github.com/PetoAdam/homenavi/weather-app/internal/ui"
)

const usage = `Type a place name and press Enter to look it up.
  :locate   use the current location
  :quit     exit
`

func main() {
	fs := pflag.NewFlagSet("weather-cli", pflag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("server", "", "weather-app base URL (default from ui.backend_url)")
	city := fs.String("city", "", "place to look up on start instead of the default")
	lat := fs.Float64("lat", 0, "latitude for --geo=static")
	lon := fs.Float64("lon", 0, "longitude for --geo=static")
	geoMode := fs.String("geo", "ip", "location source for :locate: none, static or ip")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, config.FlagBinding{Key: "ui.backend_url", Flag: fs.Lookup("server")})
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	opts := []ui.Option{
		ui.WithDefaultPlace(cfg.UI.DefaultPlace),
		ui.WithInitialDelay(cfg.UI.InitialDelay),
		ui.WithLogger(logger),
	}
	switch *geoMode {
	case "none":
	case "static":
		if !fs.Changed("lat") || !fs.Changed("lon") {
			slog.Error("--geo=static needs --lat and --lon")
			os.Exit(2)
		}
		opts = append(opts, ui.WithGeolocator(geo.Static{Lat: *lat, Lon: *lon}))
	case "ip":
		opts = append(opts, ui.WithGeolocator(geo.NewIPLocator(geo.WithLogger(logger))))
	default:
		slog.Error("unknown --geo value", "geo", *geoMode)
		os.Exit(2)
	}

	view := termview.New(os.Stdout)
	c := ui.NewController(view, client.New(cfg.UI.BackendURL, client.WithLogger(logger)), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Print(usage)
	if *city != "" {
		view.SetPlaceName(*city)
		c.Search(ctx)
	} else {
		c.Initialize(ctx)
	}

	// Every controller call returns before the next line is read, so the
	// view is never touched concurrently.
	in := bufio.NewScanner(os.Stdin)
	for prompt(view); in.Scan(); prompt(view) {
		if ctx.Err() != nil {
			return
		}
		switch line := strings.TrimSpace(in.Text()); line {
		case ":quit", ":q":
			return
		case ":locate":
			c.UseCurrentLocation(ctx)
		default:
			view.SetPlaceName(line)
			c.Search(ctx)
		}
		if err := view.Err(); err != nil {
			slog.Error("failed to write output", "error", err)
			os.Exit(1)
		}
	}
}

func prompt(v *termview.View) {
	if place := v.PlaceName(); place != "" {
		fmt.Printf("[%s] > ", place)
		return
	}
	fmt.Print("> ")
}
