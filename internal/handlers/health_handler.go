package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/database"
	"github.com/hfrat/hfrat-backend/internal/dto"
)

type HealthHandler struct {
	env string
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "connected"
	if err := database.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Environment: h.env,
		Database:    dbStatus,
	})
}

// Index serves the service metadata at the root path.
func (h *HealthHandler) Index(c *fiber.Ctx) error {
	return c.JSON(dto.MetaResponse{
		Name:        "HFRAT API",
		Version:     "1.0.0",
		Status:      "running",
		Environment: h.env,
		Endpoints: map[string]string{
			"auth":     "/api/auth",
			"admin":    "/api/admin",
			"reporter": "/api/reporter",
			"monitor":  "/api/monitor",
			"health":   "/health",
		},
	})
}
