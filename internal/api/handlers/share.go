package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/services"
)

// ShareConversation returns the conversation's share token and URL
func ShareConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := svc.Share.Share(c.Context(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(result)
	}
}

// GetSharedConversation returns the read-only view behind a share token
func GetSharedConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shared, err := svc.Share.GetShared(c.Context(), c.Params("token"))
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(shared)
	}
}
