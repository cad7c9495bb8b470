// Package main is the entry point for the Panchang API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/geocode"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
	"github.com/zapponejosh/panchang-api/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting panchang API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	seeded, err := db.SeedFestivals(ctx, cfg.FestivalsPath)
	if err != nil {
		return err
	}
	if seeded > 0 {
		log.Info("festivals seeded", slog.Int("count", seeded))
	}

	// Client -> rate limit -> cache, so cache hits never wait on the limiter.
	var geo geocode.Geocoder = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout)
	geo = geocode.NewRateLimited(geo, cfg.GeocoderRPS, cfg.GeocoderBurst)
	geo = geocode.NewCached(geo, cfg.GeocoderCacheTTL, log)

	home := panchang.Location{Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude}
	monitor, err := scheduler.NewMonitor(cfg.RefreshCron, home, log)
	if err != nil {
		return err
	}
	monitor.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		monitor.Stop(stopCtx)
	}()

	if cfg.WatchFestivals {
		w, err := festival.NewWatcher(cfg.FestivalsPath)
		if err != nil {
			return fmt.Errorf("watch festivals: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch festivals: %w", err)
		}
		defer w.Stop()
		go reloadOnChange(ctx, db, w, log)
		log.Info("watching festival file", slog.String("path", cfg.FestivalsPath))
	}

	handlers := api.NewHandlers(db, cfg, log,
		api.WithGeocoder(geo),
		api.WithMonitor(monitor),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("panchang API ready", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// reloadOnChange re-imports the festival file after each write. A removed
// file or a failed import keeps the current table.
func reloadOnChange(ctx context.Context, db *database.DB, w *festival.Watcher, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-w.Changes:
			if !ok {
				return
			}
			if change.Removed {
				log.Warn("festival file removed, keeping current festivals", slog.String("path", change.Path))
				continue
			}
			n, err := db.ImportFestivals(ctx, change.Path)
			if err != nil {
				log.Error("festival reload failed", slog.String("path", change.Path), slog.Any("error", err))
				continue
			}
			log.Info("festivals reloaded", slog.String("path", change.Path), slog.Int("count", n))
		}
	}
}
