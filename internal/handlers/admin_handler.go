package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/services"
	"github.com/hfrat/hfrat-backend/internal/validation"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		slog.Error("listing users failed", "error", err, "path", c.Path())
		return internalError(c)
	}
	return c.JSON(dto.UsersResponse{Users: users})
}

func (h *AdminHandler) ListFacilities(c *fiber.Ctx) error {
	facilities, err := h.adminService.ListFacilities()
	if err != nil {
		slog.Error("listing facilities failed", "error", err, "path", c.Path())
		return internalError(c)
	}
	return c.JSON(dto.FacilitiesResponse{Facilities: facilities})
}

func (h *AdminHandler) CreateFacility(c *fiber.Ctx) error {
	data, ok := parseBody(c)
	if !ok {
		return badRequest(c, "Invalid request body")
	}

	if errs := validation.ValidateFacilityPayload(data); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	name := validation.SanitizeString(data["name"], 150)
	country := optionalString(data["country"], 120)
	city := optionalString(data["city"], 120)

	facility, err := h.adminService.CreateFacility(name, country, city)
	if err != nil {
		if errors.Is(err, services.ErrFacilityExists) {
			return conflict(c, "Facility already exists.")
		}
		slog.Error("facility creation failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FacilityResponse{Facility: *facility})
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	data, ok := parseBody(c)
	if !ok {
		return badRequest(c, "Invalid request body")
	}

	email := validation.SanitizeEmail(data["email"])
	if email == "" {
		return badRequest(c, "email is required.")
	}

	tempPassword, _ := data["password"].(string)
	if tempPassword == "" {
		tempPassword, _ = data["temporary_password"].(string)
	}
	if tempPassword == "" {
		return badRequest(c, "temporary password is required.")
	}

	roleValue := strings.ToLower(validation.SanitizeString(data["role"], 50))
	role, ok := models.ParseRole(roleValue)
	if !ok {
		return badRequest(c, "Invalid role.")
	}

	var facilityID *uint
	if v, ok := validation.SanitizeInteger(data["facility_id"], validation.IntPtr(1), nil); ok {
		id := uint(v)
		facilityID = &id
	}

	user, err := h.adminService.CreateUser(email, tempPassword, role, facilityID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFacilityRequired):
			return badRequest(c, "facility_id is required for reporter.")
		case errors.Is(err, services.ErrFacilityNotFound):
			return notFound(c, "Facility not found.")
		case errors.Is(err, services.ErrEmailTaken):
			return conflict(c, "Email already registered.")
		}
		slog.Error("user creation failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{User: *user})
}

func (h *AdminHandler) DeleteFacility(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return notFound(c, "Facility not found.")
	}

	if err := h.adminService.DeleteFacility(uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrFacilityNotFound):
			return notFound(c, "Facility not found.")
		case errors.Is(err, services.ErrFacilityInUse):
			return conflict(c, "Facility has linked users.")
		}
		slog.Error("facility deletion failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.JSON(dto.MessageResponse{Message: "Facility deleted."})
}

func optionalString(value any, maxLen int) *string {
	s := validation.SanitizeString(value, maxLen)
	if s == "" {
		return nil
	}
	return &s
}
