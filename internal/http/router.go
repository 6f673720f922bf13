package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/http/handlers"
	"github.com/docvault/backend/internal/middleware"
	"github.com/docvault/backend/internal/services"
)

func SetupRouter(
	app *fiber.App,
	log *zap.Logger,
	rdb *redis.Client,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	documentHandler *handlers.DocumentHandler,
	activityHandler *handlers.ActivityHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(authService, log))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)
	protected.Get("/users", userHandler.ListUsers)

	// Documents
	protected.Get("/documents", documentHandler.List)
	protected.Get("/documents/archived", documentHandler.ListArchived)
	protected.Post("/documents/upload", documentHandler.Upload)
	protected.Get("/documents/:id", documentHandler.Get)
	protected.Patch("/documents/:id/archive", documentHandler.Archive)
	protected.Patch("/documents/:id/restore", documentHandler.Restore)
	protected.Delete("/documents/:id", documentHandler.Delete)
	protected.Post("/documents/:id/share", documentHandler.Share)
	protected.Get("/documents/:id/view", documentHandler.View)
	protected.Get("/documents/:id/download", documentHandler.Download)

	// Activities
	protected.Get("/activities", activityHandler.List)

	// WebSocket activity feed
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
