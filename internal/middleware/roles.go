package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hfrat/hfrat-backend/internal/dto"
	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/token"
)

const identityLocalKey = "identity"

// RequireRole gates a route on the caller's role. It rejects revoked tokens
// as unauthenticated, extracts the identity from the verified token and
// responds 403 without revealing which roles would have been allowed.
func RequireRole(store token.RevocationStore, allowed ...models.Role) fiber.Handler {
	roleSet := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		roleSet[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		t, ok := c.Locals("user").(*jwt.Token)
		if !ok || t == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: authFailedMessage})
		}

		if jti := token.JTI(t); jti != "" {
			revoked, err := store.IsRevoked(c.Context(), jti)
			if err != nil {
				// A revocation-store outage must not take down every
				// authenticated route; log and continue.
				slog.Error("revocation lookup failed", "error", err, "path", c.Path())
			} else if revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: authFailedMessage})
			}
		}

		ident := token.IdentityFromToken(t)
		if _, ok := roleSet[ident.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Forbidden"})
		}

		c.Locals(identityLocalKey, ident)
		return c.Next()
	}
}

// AdminRequired allows admins only.
func AdminRequired(store token.RevocationStore) fiber.Handler {
	return RequireRole(store, models.RoleAdmin)
}

// ReporterRequired allows reporters, plus admins for oversight.
func ReporterRequired(store token.RevocationStore) fiber.Handler {
	return RequireRole(store, models.RoleReporter, models.RoleAdmin)
}

// MonitorRequired allows monitors, plus admins for oversight.
func MonitorRequired(store token.RevocationStore) fiber.Handler {
	return RequireRole(store, models.RoleMonitor, models.RoleAdmin)
}

// IdentityFrom returns the identity stashed by RequireRole.
func IdentityFrom(c *fiber.Ctx) token.Identity {
	ident, _ := c.Locals(identityLocalKey).(token.Identity)
	return ident
}

// TokenFrom returns the verified token stored by Protected.
func TokenFrom(c *fiber.Ctx) *jwt.Token {
	t, _ := c.Locals("user").(*jwt.Token)
	return t
}
