package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kinopsis/agensalud/internal/api/router"
	"github.com/kinopsis/agensalud/internal/appointments"
	"github.com/kinopsis/agensalud/internal/availability"
	appconfig "github.com/kinopsis/agensalud/internal/config"
	"github.com/kinopsis/agensalud/internal/http/handlers"
	"github.com/kinopsis/agensalud/internal/observability/metrics"
	"github.com/kinopsis/agensalud/internal/orgsettings"
	"github.com/kinopsis/agensalud/internal/schedules"
	"github.com/kinopsis/agensalud/pkg/logging"
)

func main() {
	// Load .env in development; deployed environments inject real vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agensalud availability API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	// Repositories and stores
	scheduleRepo := schedules.NewRepository(pool)
	appointmentRepo := appointments.NewRepository(pool)
	settingsStore := orgsettings.NewStore(redisClient, cfg.DefaultTimezone)

	// Core engine and handler
	engine := availability.NewEngine(availability.DurationBounds{
		Min: cfg.MinSlotDurationMins,
		Max: cfg.MaxSlotDurationMins,
	}, logger)
	availabilityMetrics := metrics.NewAvailabilityMetrics(nil)
	availabilityHandler := handlers.NewAvailabilityHandler(
		engine, scheduleRepo, appointmentRepo, settingsStore, availabilityMetrics, logger,
	)

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availabilityHandler,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RequestBudget:       cfg.ComputeRequestBudget,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
