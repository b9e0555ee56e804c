package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/services"
)

type MonitorHandler struct {
	dashboardService *services.DashboardService
}

func NewMonitorHandler(dashboardService *services.DashboardService) *MonitorHandler {
	return &MonitorHandler{dashboardService: dashboardService}
}

func (h *MonitorHandler) Dashboard(c *fiber.Ctx) error {
	entries, err := h.dashboardService.Summary()
	if err != nil {
		slog.Error("dashboard summary failed", "error", err, "path", c.Path())
		return internalError(c)
	}
	return c.JSON(dto.DashboardResponse{Facilities: entries})
}

func (h *MonitorHandler) DashboardHistory(c *fiber.Ctx) error {
	facilityID := c.QueryInt("facility_id")
	if facilityID <= 0 {
		return badRequest(c, "facility_id is required.")
	}

	days := c.QueryInt("days", 7)
	if days <= 0 {
		return badRequest(c, "days must be a positive integer.")
	}

	resp, err := h.dashboardService.History(uint(facilityID), days)
	if err != nil {
		if errors.Is(err, services.ErrFacilityNotFound) {
			return notFound(c, "Facility not found.")
		}
		slog.Error("dashboard history failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.JSON(resp)
}
