package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/services"
)

// ListConversations returns all conversations
func ListConversations(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conversations, err := svc.Chat.ListConversations(c.Context())
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(conversations)
	}
}

// GetConversation returns a conversation with its message history and
// suggested follow-up prompts
func GetConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		detail, err := svc.Chat.GetConversation(c.Context(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(detail)
	}
}

// CreateConversation creates a new conversation
func CreateConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Title string `json:"title"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		conv, err := svc.Chat.CreateConversation(c.Context(), req.Title)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(conv)
	}
}

// SendMessage adds a user message and returns the assistant's reply
func SendMessage(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		msg, err := svc.Chat.SendMessage(c.Context(), c.Params("id"), req.Content)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(msg)
	}
}

// EndConversation ends a conversation and returns it with its summary
func EndConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv, err := svc.Chat.EndConversation(c.Context(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(conv)
	}
}

// QueryConversations answers a free-text question over past conversation
// summaries
func QueryConversations(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Query string `json:"query"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		result, err := svc.Insights.Query(c.Context(), req.Query)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(result)
	}
}
