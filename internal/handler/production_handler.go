package handler

import (
	"strconv"
	"strings"
	"time"

	"go-factory-planner/internal/export"
	"go-factory-planner/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductionHandler struct {
	service service.ProductionService
}

func NewProductionHandler(s service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: s}
}

// GetSuggestion returns what current stock could produce, by price priority
func (h *ProductionHandler) GetSuggestion(c *fiber.Ctx) error {
	report, err := h.service.Suggest(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// ExportSuggestion renders the suggestion as a file
// Query params: format (xlsx, pdf; default xlsx)
func (h *ProductionHandler) ExportSuggestion(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "xlsx"))
	if format != "xlsx" && format != "pdf" {
		return c.Status(400).JSON(fiber.Map{"error": "Unsupported format, use xlsx or pdf"})
	}

	report, err := h.service.Suggest(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	now := time.Now()
	var data []byte
	var contentType string
	if format == "pdf" {
		data, err = export.SuggestionPDF(*report, now)
		contentType = "application/pdf"
	} else {
		data, err = export.SuggestionXLSX(*report, now)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export suggestion"})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment("production-suggestion-" + now.Format("20060102") + "." + format)
	return c.Send(data)
}

// Produce commits a production run
// POST /production-suggestion/produce/:id?quantity=N
func (h *ProductionHandler) Produce(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
	}

	// missing or malformed quantity is reported after the product lookup
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		quantity = 0
	}

	run, err := h.service.Produce(c.UserContext(), id, quantity, getActor(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Production confirmed and stock updated.", "data": run})
}

func (h *ProductionHandler) GetRuns(c *fiber.Ctx) error {
	runs, err := h.service.GetAllRuns()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(runs)
}

func (h *ProductionHandler) GetRun(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production run ID"})
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(run)
}
