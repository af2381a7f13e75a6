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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medagenda/scheduling-api/internal/api/router"
	"github.com/medagenda/scheduling-api/internal/appointments"
	"github.com/medagenda/scheduling-api/internal/availability"
	"github.com/medagenda/scheduling-api/internal/clinic"
	appconfig "github.com/medagenda/scheduling-api/internal/config"
	"github.com/medagenda/scheduling-api/internal/observability/metrics"
	"github.com/medagenda/scheduling-api/internal/schedule"
	"github.com/medagenda/scheduling-api/pkg/logging"
)

func main() {
	// Load .env in local development; deployments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting scheduling API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach database", "error", err)
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
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to reach redis", "error", err)
		os.Exit(1)
	}

	// Metrics registry with the standard process and Go collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	availabilityMetrics := metrics.NewAvailabilityMetrics(registry)

	fallbackSettings := &clinic.Settings{
		Timezone:               cfg.ClinicTimezone,
		SlotGranularityMinutes: cfg.SlotGranularityMinutes,
		DefaultDurationMinutes: cfg.DefaultDurationMinutes,
	}
	if err := fallbackSettings.Validate(); err != nil {
		logger.Error("invalid clinic settings configuration", "error", err)
		os.Exit(1)
	}
	settingsStore := clinic.NewStore(redisClient, fallbackSettings)

	scheduleStore := schedule.NewPgStore(pool)
	resolver := schedule.NewResolver(scheduleStore, logger.Component("schedule"))
	appointmentStore := appointments.NewStore(pool)

	service := availability.NewService(
		resolver,
		appointmentStore,
		settingsStore,
		availabilityMetrics,
		logger.Component("availability"),
	)

	availabilityHandler := availability.NewHandler(service, logger.Component("availability"))
	clinicHandler := clinic.NewHandler(settingsStore, logger.Component("clinic"))

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availabilityHandler,
		ClinicHandler:       clinicHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
