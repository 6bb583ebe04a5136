package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/services"
)

// errorResponse maps service errors to the API's {"detail": ...} body.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	detail := "Internal server error"

	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		status, detail = fiber.StatusNotFound, "Conversation not found"
	case errors.Is(err, services.ErrMessageNotFound):
		status, detail = fiber.StatusNotFound, "Message not found"
	case errors.Is(err, services.ErrSharedNotFound):
		status, detail = fiber.StatusNotFound, "Shared conversation not found"
	case errors.Is(err, services.ErrConversationEnded):
		status, detail = fiber.StatusBadRequest, "Conversation has ended"
	case errors.Is(err, services.ErrConversationAlreadyEnded):
		status, detail = fiber.StatusBadRequest, "Conversation already ended"
	case errors.Is(err, services.ErrInvalidExportFormat):
		status, detail = fiber.StatusBadRequest, "Invalid export format"
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": detail,
	})
}

func badRequest(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"detail": detail,
	})
}
