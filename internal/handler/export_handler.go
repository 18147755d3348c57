package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(s service.ExportService) *ExportHandler {
	return &ExportHandler{service: s}
}

func (h *ExportHandler) ExportJSON(c *fiber.Ctx) error {
	dump, err := h.service.ExportDump()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Export failed"})
	}
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="barflow-export-%s.json"`, time.Now().Format("20060102")))
	return c.JSON(dump)
}

func (h *ExportHandler) ExportWorkbook(c *fiber.Ctx) error {
	f, err := h.service.ExportWorkbook()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Export failed"})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Export failed"})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="barflow-export-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}

// Import accepts both export shapes: a complete keyed dump replaces
// everything, a per-entity breakdown merges by name.
func (h *ExportHandler) Import(c *fiber.Ctx) error {
	var dump service.DataDump
	if err := c.BodyParser(&dump); err == nil && len(dump.Data) > 0 {
		if err := h.service.ImportDump(&dump); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Complete dump imported", "keys": len(dump.Data)})
	}

	var entities service.EntityExport
	if err := c.BodyParser(&entities); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.ImportEntities(&entities); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Entities imported"})
}
