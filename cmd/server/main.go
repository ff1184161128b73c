package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features/chat"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features/sessions"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" && cfg.JWTJWKSURL == "" {
		slog.Error("JWT_SECRET or JWT_JWKS_URL environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.AIAPIKey == "" {
		slog.Warn("AI_API_KEY not set, chat turns will fail until it is configured")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Redis is optional; without it the registered-user count is read from the DB each turn.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 5*time.Second)
	redisCache, err := cache.Connect(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		redisCache = nil
	}

	plugins := []features.Plugin{
		chat.New(),
		sessions.New(),
	}

	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(database.DB, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	subscriptionService := services.NewSubscriptionService(services.NewProfileTiers(database.DB))

	healthHandler := handlers.NewHealthHandler(database.Ping)
	webhookHandler := handlers.NewWebhookHandler(subscriptionService, cfg.RevenueCatWebhookAuth)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	deps := &features.Deps{DB: database.DB, Cfg: cfg, Cache: redisCache}
	routes.Setup(app, deps, healthHandler, webhookHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
