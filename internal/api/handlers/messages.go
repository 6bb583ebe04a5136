package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/services"
)

// ReactToMessage toggles a reaction on a message
func ReactToMessage(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Reaction string `json:"reaction"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		reactions, err := svc.Chat.ReactToMessage(c.Context(), c.Params("id"), req.Reaction)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(fiber.Map{
			"success":   true,
			"reactions": reactions,
		})
	}
}

// BookmarkMessage toggles the bookmark flag on a message
func BookmarkMessage(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookmarked, err := svc.Chat.BookmarkMessage(c.Context(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"bookmarked": bookmarked,
		})
	}
}
