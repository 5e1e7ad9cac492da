package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkbook/internal/config"
	"inkbook/internal/events"
	"inkbook/internal/metrics"
	"inkbook/internal/service"
	"inkbook/internal/storage"
	"inkbook/internal/ui"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger. Shell output goes to stdout, logs to stderr.
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("INKBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := storage.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage error")
	}
	defer db.Close()

	bus := events.NewBus()
	metrics.Register()
	wireSubscribers(bus, &logger)

	svc := service.New(db, bus, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Load(ctx); err != nil {
		if errors.Is(err, service.ErrBadData) {
			// Bad persisted data must surface, not crash; the session
			// starts from the last-good (empty) store.
			fmt.Fprintf(os.Stdout, "stored bookings could not be read (%v), starting with an empty schedule\n", err)
		} else {
			logger.Fatal().Err(err).Msg("load store error")
		}
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	backup := storage.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backup.Start(ctx)

	logger.Info().Msg("inkbook started")
	shell := ui.New(svc, cfg.Form.DefaultStart, cfg.Form.DefaultEnd, os.Stdin, os.Stdout, &logger, nil)
	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("shell error")
	}
}

func wireSubscribers(bus *events.Bus, logger *zerolog.Logger) {
	bus.Subscribe(events.TypeBookingCreated, func(e events.Event) {
		metrics.IncBookingCreated()
		logger.Info().Str("id", e.Booking.ID).Str("date", e.Booking.Date).Int("store_size", e.Count).Msg("booking created")
	})
	bus.Subscribe(events.TypeBookingUpdated, func(e events.Event) {
		metrics.IncBookingUpdated()
		logger.Info().Str("id", e.Booking.ID).Str("date", e.Booking.Date).Msg("booking updated")
	})
	bus.Subscribe(events.TypeBookingDeleted, func(e events.Event) {
		metrics.IncBookingDeleted()
		logger.Info().Str("id", e.Booking.ID).Str("date", e.Booking.Date).Msg("booking deleted")
	})
	bus.Subscribe(events.TypeStoreImported, func(e events.Event) {
		logger.Info().Int("store_size", e.Count).Msg("snapshot imported")
	})
}

func startHealthServer(ctx context.Context, port int, db *storage.DB, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
