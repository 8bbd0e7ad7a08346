package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/harvestkit/townpage/config"
	"github.com/harvestkit/townpage/fetch"
	"github.com/harvestkit/townpage/harvest"
	"github.com/harvestkit/townpage/sink"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	settingsDefault := "settings.json"
	if value, ok := config.EnvString("HARVESTER_SETTINGS"); ok {
		settingsDefault = value
	}
	metricsDefault := ""
	if value, ok := config.EnvString("HARVESTER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	keyword := flag.String("keyword", "", "Search keyword (single word, required)")
	backend := flag.String("backend", "browser", "Fetch backend: http or browser")
	engine := flag.String("engine", "chrome", "Browser engine for the rendered backend: chrome or chromium")
	timeoutSec := flag.Int("timeout", 90, "Seconds to wait for rendered results to appear")
	retry := flag.Int("retry", 3, "Fetch retry attempts per page")
	intervalSec := flag.Int("interval", 3, "Pause between page requests (seconds)")
	settingsPath := flag.String("settings", settingsDefault, "Path to the settings JSON file")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (empty to disable)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		slog.Error("loading settings", slog.Any("error", err))
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.Keyword = *keyword
	cfg.Areas = settings.FlattenAreas()
	cfg.Backend = config.Backend(*backend)
	cfg.Engine = config.Engine(*engine)
	cfg.OutputFile = settings.Filename
	cfg.Encoding = settings.Encoding
	cfg.BaseURI = settings.URI
	cfg.WaitTimeout = time.Duration(*timeoutSec) * time.Second
	cfg.MaxRetries = *retry
	cfg.Interval = time.Duration(*intervalSec) * time.Second
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	backendImpl, err := fetch.New(cfg)
	if err != nil {
		slog.Error("initialising fetch backend", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := harvest.NewMetrics()
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	h := harvest.New(cfg, backendImpl, sink.NewCSV(cfg.OutputFile, cfg.Encoding), metrics)

	err = h.Run(context.Background())

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := metricsServer.Shutdown(shutdownCtx); serr != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", serr))
		}
		cancel()
	}

	if err != nil {
		slog.Error("harvest failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
