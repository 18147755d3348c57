package handler

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CashHandler struct {
	service service.CashService
}

func NewCashHandler(s service.CashService) *CashHandler {
	return &CashHandler{service: s}
}

func (h *CashHandler) Initialize(c *fiber.Ctx) error {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	balance, err := h.service.Initialize(req.Amount)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Drawer initialized", "data": balance})
}

func (h *CashHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.service.GetBalance()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(balance)
}

func (h *CashHandler) AddTransaction(c *fiber.Ctx) error {
	var req struct {
		Type        model.CashTransactionType `json:"type"`
		Amount      int64                     `json:"amount"`
		Description string                    `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.AddTransaction(req.Type, req.Amount, req.Description)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

func (h *CashHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.DeleteTransaction(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSaleTransaction):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

func (h *CashHandler) GetTransactions(c *fiber.Ctx) error {
	txs, err := h.service.ListTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(txs)
}

func (h *CashHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}
