package handler

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// rangeParams reads the shared range query parameters:
// ?range=7d|30d|monthly|yearly|custom&start=...&end=...
func rangeParams(c *fiber.Ctx) (preset, start, end string) {
	return c.Query("range", "7d"), c.Query("start"), c.Query("end")
}

func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	report, err := h.service.GetSalesReport(rangeParams(c))
	if err != nil {
		if errors.Is(err, service.ErrBadRange) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build sales report"})
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetProfitability(c *fiber.Ctx) error {
	report, err := h.service.GetProfitability(rangeParams(c))
	if err != nil {
		if errors.Is(err, service.ErrBadRange) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build profitability report"})
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetStockDepletion(c *fiber.Ctx) error {
	forecasts, err := h.service.GetStockDepletion(rangeParams(c))
	if err != nil {
		if errors.Is(err, service.ErrBadRange) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build depletion forecast"})
	}
	return c.JSON(forecasts)
}

func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

func (h *ReportHandler) GetHistory(c *fiber.Ctx) error {
	var itemID *uuid.UUID
	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
		}
		itemID = &id
	}

	entries, err := h.service.GetHistory(itemID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history"})
	}
	return c.JSON(entries)
}
