package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/config"
	"github.com/hfrat/hfrat-backend/internal/dto"
)

// authFailedMessage is deliberately generic: signature, expiry and
// revocation failures all read the same to the client.
const authFailedMessage = "Authentication failed. Please log in again."

// Protected verifies the bearer token's signature and expiry and stores the
// parsed token in Locals for the role guard.
func Protected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: authFailedMessage,
			})
		},
	})
}
