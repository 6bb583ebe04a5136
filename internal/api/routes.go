package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/api/handlers"
	"github.com/chatportal/chatportal-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services) {
	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Chat Portal API",
		})
	})

	// Conversation lifecycle
	api.Get("/conversations", handlers.ListConversations(svc))
	api.Post("/conversations", handlers.CreateConversation(svc))
	api.Post("/conversations/query", handlers.QueryConversations(svc))
	api.Get("/conversations/:id", handlers.GetConversation(svc))
	api.Post("/conversations/:id/messages", handlers.SendMessage(svc))
	api.Post("/conversations/:id/end", handlers.EndConversation(svc))

	// Sharing
	api.Post("/conversations/:id/share", handlers.ShareConversation(svc))
	api.Get("/shared/:token", handlers.GetSharedConversation(svc))

	// Export
	api.Post("/conversations/:id/export", handlers.ExportConversation(svc))

	// Message reactions and bookmarks
	api.Post("/messages/:id/react", handlers.ReactToMessage(svc))
	api.Post("/messages/:id/bookmark", handlers.BookmarkMessage(svc))

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "chatportal-backend",
		})
	})
}
