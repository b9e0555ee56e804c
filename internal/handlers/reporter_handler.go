package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/middleware"
	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/services"
	"github.com/hfrat/hfrat-backend/internal/validation"
)

type ReporterHandler struct {
	reportService *services.ReportService
}

func NewReporterHandler(reportService *services.ReportService) *ReporterHandler {
	return &ReporterHandler{reportService: reportService}
}

// SubmitReport upserts the current snapshot for a facility.
func (h *ReporterHandler) SubmitReport(c *fiber.Ctx) error {
	ident := middleware.IdentityFrom(c)

	data, ok := parseBody(c)
	if !ok {
		return badRequest(c, "Invalid request body")
	}

	if errs := validation.ValidateReportPayload(data); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	facilityID, _ := validation.SanitizeInteger(data["facility_id"], validation.IntPtr(1), nil)
	icuBeds, _ := validation.SanitizeInteger(data["icu_beds_available"], validation.IntPtr(0), validation.IntPtr(10000))
	ventilators, _ := validation.SanitizeInteger(data["ventilators_available"], validation.IntPtr(0), validation.IntPtr(10000))
	staff, _ := validation.SanitizeInteger(data["staff_on_duty"], validation.IntPtr(0), validation.IntPtr(10000))

	report, err := h.reportService.Submit(ident, uint(facilityID), icuBeds, ventilators, staff)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReporterUnlinked):
			return forbidden(c, "Reporter is not linked to a facility.")
		case errors.Is(err, services.ErrWrongFacility):
			return forbidden(c, "Reporter can only submit for their facility.")
		case errors.Is(err, services.ErrFacilityNotFound):
			return notFound(c, "Facility not found.")
		}
		slog.Error("report submission failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ReportResponse{Report: *report})
}

// MyLatestReport returns the current snapshot for the caller's facility.
// Admins and monitors must name the facility in the query string.
func (h *ReporterHandler) MyLatestReport(c *fiber.Ctx) error {
	ident := middleware.IdentityFrom(c)

	var facilityID uint
	if ident.Role == models.RoleReporter {
		if ident.FacilityID == nil {
			return forbidden(c, "Reporter is not linked to a facility.")
		}
		facilityID = *ident.FacilityID
	} else {
		queried := c.QueryInt("facility_id")
		if queried <= 0 {
			return badRequest(c, "facility_id is required for this request.")
		}
		facilityID = uint(queried)
	}

	report, err := h.reportService.LatestForFacility(facilityID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, "No report found.")
		}
		slog.Error("report lookup failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.JSON(dto.ReportResponse{Report: *report})
}
