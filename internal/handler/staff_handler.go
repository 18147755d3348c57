package handler

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	service service.StaffService
}

func NewStaffHandler(s service.StaffService) *StaffHandler {
	return &StaffHandler{service: s}
}

func (h *StaffHandler) CreateMember(c *fiber.Ctx) error {
	var req service.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	member, err := h.service.CreateMember(&req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Staff member created", "data": member.ToResponse()})
}

func (h *StaffHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	member, err := h.service.UpdateMember(id, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Staff member updated", "data": member.ToResponse()})
}

func (h *StaffHandler) SetPIN(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.SetPIN(id, req.PIN); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "PIN updated"})
}

func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *StaffHandler) Reactivate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *StaffHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	if active {
		err = h.service.Reactivate(id)
	} else {
		err = h.service.Deactivate(id)
	}
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Staff member updated"})
}

func (h *StaffHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	if err := h.service.DeleteMember(id); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Staff member deleted"})
}

func (h *StaffHandler) GetMembers(c *fiber.Ctx) error {
	includeInactive := c.Query("include_inactive") == "true"
	members, err := h.service.ListMembers(includeInactive)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(members)
}

func (h *StaffHandler) GetMember(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	member, err := h.service.GetMember(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Staff member not found"})
	}
	return c.JSON(member.ToResponse())
}
