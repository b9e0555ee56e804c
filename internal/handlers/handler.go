// Package handlers holds the thin HTTP layer: parse and validate the
// request, call a service, translate its result into a response.
package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/hfrat/hfrat-backend/internal/dto"
)

const internalErrorMessage = "Internal server error. Please try again later."

// parseBody decodes the request body into a generic payload for the
// validators. An empty body counts as an empty payload; malformed JSON
// returns false.
func parseBody(c *fiber.Ctx) (map[string]any, bool) {
	body := c.Body()
	if len(body) == 0 {
		return map[string]any{}, true
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return nil, false
	}
	return data, true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: message})
}

func validationFailed(c *fiber.Ctx, errs []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Errors: errs})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: message})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: message})
}

func conflict(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: message})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: internalErrorMessage})
}
