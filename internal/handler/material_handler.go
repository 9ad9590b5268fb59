package handler

import (
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaterialHandler struct {
	service service.MaterialService
}

func NewMaterialHandler(s service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: s}
}

func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	materials, err := h.service.GetAllMaterials()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(materials)
}

func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	material, err := h.service.GetMaterial(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(material)
}

func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var material model.RawMaterial
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateMaterial(&material, getActor(c)); err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(material)
}

func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	var material model.RawMaterial
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateMaterial(c.UserContext(), id, &material, getActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	if err := h.service.DeleteMaterial(c.UserContext(), id, getActor(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(204)
}
