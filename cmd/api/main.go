package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/shelterly/shelterly/internal/adapters/geocode"
	"github.com/shelterly/shelterly/internal/adapters/http"
	natsadapter "github.com/shelterly/shelterly/internal/adapters/nats"
	"github.com/shelterly/shelterly/internal/adapters/postgres"
	"github.com/shelterly/shelterly/internal/adapters/storage"
	"github.com/shelterly/shelterly/internal/adapters/valkey"
	"github.com/shelterly/shelterly/internal/core/ports"
	"github.com/shelterly/shelterly/internal/core/usecases"
	"github.com/shelterly/shelterly/internal/pkg/config"
	"github.com/shelterly/shelterly/internal/pkg/logging"
	"github.com/shelterly/shelterly/internal/pkg/metrics"
	"github.com/shelterly/shelterly/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("shelterly-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. Only a successfully connected client goes into the interface:
	// wrapping the nil pointer would defeat the services' nil checks.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS, same rule as the cache
	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
		events = publisher
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// External services
	blobStore := storage.New(cfg.Storage.URL, cfg.Storage.Bucket, cfg.Storage.ServiceKey)
	geocoder := geocode.New(cfg.Geocoder.BaseURL, cfg.Geocoder.CountryCode, cfg.Geocoder.UserAgent)

	// Repos
	profileRepo := postgres.NewProfileRepo(db)
	needRepo := postgres.NewNeedRepo(db)

	// Use cases
	profileSvc := usecases.NewProfileService(profileRepo, needRepo, cacheSvc, events)
	documentSvc := usecases.NewDocumentService(profileRepo, blobStore, events)
	geocodeSvc := usecases.NewGeocodeService(geocoder, cacheSvc)

	deps := &http.Dependencies{
		Profiles:  profileSvc,
		Documents: documentSvc,
		Geocode:   geocodeSvc,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
		JWTSecret: cfg.Auth.JWTSecret,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    6 * 1024 * 1024, // headroom over the 5 MB document cap
		AppName:      "Shelterly API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.shelterly.pl",
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
