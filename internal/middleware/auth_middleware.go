package middleware

import (
	"strings"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the JWT and sets staff info in context
func RequireAuth(staffRepo repository.StaffRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Deactivated members lose access immediately, token or not
		member, err := staffRepo.FindByID(claims.StaffID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Staff member not found"})
		}
		if !member.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Staff account is inactive"})
		}

		c.Locals("staff_id", claims.StaffID.String())
		c.Locals("staff_name", member.Name)
		c.Locals("staff_role", member.Role)

		return c.Next()
	}
}

// RequireManager restricts a route to manager accounts
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("staff_role").(string)
		if !ok || role != model.RoleManager {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: manager role required"})
		}
		return c.Next()
	}
}
