package handler

import (
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.CreateProduct(&product, getActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(created)
}

// AddMaterial accepts {"rawMaterial": {"id": ...}, "requiredQuantity": n}
// or {"rawMaterialId": ..., "requiredQuantity": n}
func (h *ProductHandler) AddMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var line model.ProductMaterial
	if err := c.BodyParser(&line); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	added, err := h.service.AddMaterial(id, &line, getActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(added)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, getActor(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(204)
}
