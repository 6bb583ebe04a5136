package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/chatportal/chatportal-backend/internal/services"
)

// ExportConversation renders a conversation as JSON, Markdown, or PDF
func ExportConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Format string `json:"format"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		result, err := svc.Export.Export(c.Context(), c.Params("id"), req.Format)
		if err != nil {
			return errorResponse(c, err)
		}

		switch result.Format {
		case services.FormatMarkdown:
			return c.JSON(fiber.Map{
				"markdown": result.Markdown,
			})
		case services.FormatPDF:
			c.Set(fiber.HeaderContentType, "application/pdf")
			c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
			return c.Send(result.PDF)
		default:
			return c.JSON(result.Document)
		}
	}
}
