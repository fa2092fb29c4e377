package middleware

import (
	"strings"

	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is where RequireAuth stores the caller's model.Identity in the
// request locals. Handlers read it once and pass it down explicitly.
const IdentityKey = "identity"

// RequireAuth validates the bearer token, re-checks the user row, and
// attaches the caller's Identity to the request.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
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

		// The token may outlive the account; check the row it points at.
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}

		c.Locals(IdentityKey, model.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.FullName,
			Role:   user.Role,
		})

		return c.Next()
	}
}

// RequireAdmin gates a route to callers whose role is ADMIN. Must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(IdentityKey).(model.Identity)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No identity found"})
		}
		if !identity.IsAdmin() {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: requires ADMIN role"})
		}
		return c.Next()
	}
}
