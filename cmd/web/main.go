package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spacesedan/sentiboard/config"
	"github.com/spacesedan/sentiboard/internal/clients"
	"github.com/spacesedan/sentiboard/internal/logging"
	"github.com/spacesedan/sentiboard/internal/monitoring"
	"github.com/spacesedan/sentiboard/internal/sentiment"
	"github.com/spacesedan/sentiboard/internal/web"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	var (
		classifier sentiment.Classifier
		healthy    *atomic.Bool
	)
	switch cfg.Provider {
	case config.ProviderVader:
		classifier = sentiment.NewVaderClassifier()
	default:
		api := clients.NewTextAnalyticsClient(clients.TextAnalyticsOptions{
			Endpoint:     cfg.Endpoint,
			APIKey:       cfg.APIKey,
			Language:     cfg.Language,
			MaxDocuments: cfg.MaxDocuments,
			MaxAttempts:  cfg.MaxAttempts,
			Timeout:      cfg.Timeout,
		})
		classifier = sentiment.NewRemoteClassifier(api)

		healthy = &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorHealth(ctx, "text_analytics", api, cfg.HealthcheckInterval, healthy)
	}

	if cfg.Valkey.Enabled() {
		vc, err := clients.NewValkeyClient(ctx, cfg.Valkey)
		if err != nil {
			slog.Warn("[Main] Result cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer vc.Close()
			classifier = sentiment.NewCachedClassifier(classifier, vc, cfg.Language)
		}
	}

	analyzer := sentiment.NewAnalyzer(classifier, cfg.MaxDocuments, sentiment.WithObserver(metrics))

	server, err := web.NewServer(web.Options{
		Analyzer: analyzer,
		MaxRows:  cfg.MaxRows,
		Healthy:  healthy,
		Gatherer: reg,
	})
	if err != nil {
		slog.Error("[Main] Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Main] Starting sentiment dashboard",
		slog.String("provider", cfg.Provider),
		slog.Int("chunk_size", cfg.MaxDocuments),
		slog.Int("max_rows", cfg.MaxRows))

	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
