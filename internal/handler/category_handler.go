package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/ws"
	"github.com/MahounanRomain/barflowbj-22-sub000/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CategoryHandler works on the repository directly; categories carry
// no business rules beyond name uniqueness.
type CategoryHandler struct {
	mu    *sync.Mutex
	repo  repository.CategoryRepository
	wsHub *ws.Hub
}

func NewCategoryHandler(mu *sync.Mutex, repo repository.CategoryRepository, wsHub *ws.Hub) *CategoryHandler {
	return &CategoryHandler{mu: mu, repo: repo, wsHub: wsHub}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.repo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(category); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": validator.FirstError(errs).Error()})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.repo.FindByName(category.Name); err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "A category with that name already exists"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	if category.ParentID != nil {
		parent, err := h.repo.FindByID(*category.ParentID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Parent category not found"})
		}
		if !parent.IsParent {
			return c.Status(400).JSON(fiber.Map{"error": "Parent category is not marked as a parent"})
		}
	}

	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	if err := h.repo.Insert(&category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save category"})
	}

	go h.wsHub.Publish(ws.Event{
		Entity:  repository.KeyCategories,
		Action:  "created",
		Data:    category,
		Message: "Category created: " + category.Name,
	})
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete category"})
	}

	go h.wsHub.Publish(ws.Event{
		Entity: repository.KeyCategories,
		Action: "deleted",
	})
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
