package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/hfrat/hfrat-backend/internal/config"
	"github.com/hfrat/hfrat-backend/internal/database"
	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/handlers"
	"github.com/hfrat/hfrat-backend/internal/logging"
	"github.com/hfrat/hfrat-backend/internal/middleware"
	"github.com/hfrat/hfrat-backend/internal/routes"
	"github.com/hfrat/hfrat-backend/internal/services"
	"github.com/hfrat/hfrat-backend/internal/token"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Seeding
	if err := database.EnsureAdmin(database.DB, cfg); err != nil {
		slog.Error("admin seeding failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedSampleData {
		if err := database.SeedSampleData(database.DB); err != nil {
			slog.Error("sample data seeding failed", "error", err)
		}
	}

	// Token revocation store: Redis when configured, in-memory otherwise.
	// The in-memory set loses revocations on restart.
	var revocations token.RevocationStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		revocations = token.NewRedisStore(client)
		slog.Info("using redis revocation store", "addr", cfg.RedisAddr)
	} else {
		revocations = token.NewMemoryStore()
		slog.Warn("using in-memory revocation store; logouts do not survive restarts")
	}

	// Services
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry)
	authService := services.NewAuthService(database.DB, issuer)
	adminService := services.NewAdminService(database.DB)
	reportService := services.NewReportService(database.DB)
	dashboardService := services.NewDashboardService(database.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, revocations)
	adminHandler := handlers.NewAdminHandler(adminService)
	reporterHandler := handlers.NewReporterHandler(reportService)
	monitorHandler := handlers.NewMonitorHandler(dashboardService)
	healthHandler := handlers.NewHealthHandler(cfg.Env)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders(cfg.Env))

	routes.Setup(app, cfg, revocations, authHandler, adminHandler, reporterHandler, monitorHandler, healthHandler)

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

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
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
	message := "Internal server error. Please try again later."
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		if code < 500 {
			message = e.Message
		}
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
