package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/middleware"
	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/services"
	"github.com/hfrat/hfrat-backend/internal/token"
	"github.com/hfrat/hfrat-backend/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
	revocations token.RevocationStore
}

func NewAuthHandler(authService *services.AuthService, revocations token.RevocationStore) *AuthHandler {
	return &AuthHandler{authService: authService, revocations: revocations}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	data, ok := parseBody(c)
	if !ok {
		return badRequest(c, "Invalid request body")
	}

	if errs := validation.ValidateUserPayload(data, true); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	email := validation.SanitizeEmail(data["email"])
	password, _ := data["password"].(string)

	var facilityID *uint
	if data["facility_id"] != nil {
		v, ok := validation.SanitizeInteger(data["facility_id"], validation.IntPtr(1), nil)
		if !ok {
			return badRequest(c, "facility_id must be a positive integer.")
		}
		id := uint(v)
		facilityID = &id
	}

	roleValue := strings.ToLower(validation.SanitizeString(data["role"], 50))
	if roleValue == "" {
		roleValue = string(models.RoleReporter)
	}
	role, ok := models.ParseRole(roleValue)
	if !ok {
		return badRequest(c, "Invalid role.")
	}

	user, accessToken, err := h.authService.Register(email, password, role, facilityID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFacilityNotAllowed):
			return badRequest(c, "facility_id allowed only for reporter role.")
		case errors.Is(err, services.ErrFacilityRequired):
			return badRequest(c, "facility_id is required for reporter.")
		case errors.Is(err, services.ErrFacilityNotFound):
			return notFound(c, "Facility not found.")
		case errors.Is(err, services.ErrEmailTaken):
			return conflict(c, "Email already registered.")
		}
		slog.Error("registration failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		AccessToken: accessToken,
		Role:        user.Role,
		FacilityID:  user.FacilityID,
		User:        *user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	data, ok := parseBody(c)
	if !ok {
		return badRequest(c, "Invalid request body")
	}

	// Presence only; the email format check applies at registration.
	var errs []string
	email := validation.SanitizeEmail(data["email"])
	password, _ := data["password"].(string)
	if email == "" {
		errs = append(errs, "Email is required.")
	}
	if password == "" {
		errs = append(errs, "Password is required.")
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	user, accessToken, err := h.authService.Login(email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Invalid credentials."})
		}
		slog.Error("login failed", "error", err, "path", c.Path())
		return internalError(c)
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: accessToken,
		Role:        user.Role,
		FacilityID:  user.FacilityID,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	t := middleware.TokenFrom(c)
	if t == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Authentication failed. Please log in again."})
	}

	if jti := token.JTI(t); jti != "" {
		// A token revoked by an earlier logout is no longer authenticated,
		// same as on every other guarded route.
		revoked, err := h.revocations.IsRevoked(c.Context(), jti)
		if err != nil {
			slog.Error("revocation lookup failed", "error", err, "path", c.Path())
		} else if revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Authentication failed. Please log in again."})
		}

		if err := h.revocations.Revoke(c.Context(), jti, token.RemainingLifetime(t)); err != nil {
			slog.Error("token revocation failed", "error", err)
			return internalError(c)
		}
	}

	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}
