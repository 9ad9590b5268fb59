package handler

import (
	"context"
	"errors"

	"go-factory-planner/internal/lock"
	"go-factory-planner/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil operator dari context (set by auth middleware)
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.SystemActor
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok && name != "" {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// writeError maps service errors to HTTP status codes
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var insufficient *service.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(400).JSON(fiber.Map{"error": validationErr.Message})
	case errors.As(err, &insufficient):
		return c.Status(400).JSON(fiber.Map{"error": insufficient.Error()})
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrMaterialNotFound),
		errors.Is(err, service.ErrRunNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrMaterialInUse),
		errors.Is(err, service.ErrDuplicateMaterial),
		errors.Is(err, lock.ErrNotObtained):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return c.Status(503).JSON(fiber.Map{"error": "Request timed out, try again"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
