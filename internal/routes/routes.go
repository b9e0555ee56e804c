package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/hfrat/hfrat-backend/internal/config"
	"github.com/hfrat/hfrat-backend/internal/handlers"
	"github.com/hfrat/hfrat-backend/internal/middleware"
	"github.com/hfrat/hfrat-backend/internal/token"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	revocations token.RevocationStore,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	reporterHandler *handlers.ReporterHandler,
	monitorHandler *handlers.MonitorHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/", healthHandler.Index)
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Auth: stricter rate limit on the credential endpoints
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Logout needs a valid token but no particular role.
	api.Post("/auth/logout", middleware.Protected(cfg), authHandler.Logout)

	admin := api.Group("/admin", middleware.Protected(cfg), middleware.AdminRequired(revocations))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Get("/facilities", adminHandler.ListFacilities)
	admin.Post("/facilities", adminHandler.CreateFacility)
	admin.Delete("/facilities/:id", adminHandler.DeleteFacility)

	reporter := api.Group("/reporter", middleware.Protected(cfg), middleware.ReporterRequired(revocations))
	reporter.Post("/reports", reporterHandler.SubmitReport)
	reporter.Get("/reports/me", reporterHandler.MyLatestReport)

	monitor := api.Group("/monitor", middleware.Protected(cfg), middleware.MonitorRequired(revocations))
	monitor.Get("/dashboard", monitorHandler.Dashboard)
	monitor.Get("/dashboard/history", monitorHandler.DashboardHistory)
}
