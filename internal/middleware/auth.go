package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/services"
)

const (
	CtxUser  = "current_user"
	CtxToken = "session_token"
)

// AuthMiddleware requires a bearer token backed by a live session and an
// active account. The resolved user is stored in locals for handlers.
func AuthMiddleware(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		user, err := authService.Authenticate(c.Context(), tokenStr)
		if err != nil {
			log.Debug("authentication failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxUser, user)
		c.Locals(CtxToken, tokenStr)

		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(CtxUser).(*models.User)
	return u
}

func SessionToken(c *fiber.Ctx) string {
	t, _ := c.Locals(CtxToken).(string)
	return t
}
