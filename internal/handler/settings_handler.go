package handler

import (
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler works on the repository directly; settings have no
// business rules worth a service layer.
type SettingsHandler struct {
	repo repository.SettingsRepository
}

func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings model.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.repo.Save(&settings); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": settings})
}
