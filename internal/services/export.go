package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/chatportal/chatportal-backend/internal/repository"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// ExportResult carries the rendering for exactly one format; the other
// fields stay zero.
type ExportResult struct {
	Format   string
	Document *SharedConversation
	Markdown string
	PDF      []byte
	Filename string
}

// ExportService renders conversations as JSON, Markdown, or PDF.
type ExportService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
}

// NewExportService creates a new export service
func NewExportService(conversationRepo repository.ConversationRepository, messageRepo repository.MessageRepository) *ExportService {
	return &ExportService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// Export renders the conversation in the requested format.
func (s *ExportService) Export(ctx context.Context, conversationID, format string) (*ExportResult, error) {
	conv, err := s.conversationRepo.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return &ExportResult{
			Format: FormatJSON,
			Document: &SharedConversation{
				Conversation: *conv,
				Messages:     messages,
			},
		}, nil
	case FormatMarkdown:
		return &ExportResult{
			Format:   FormatMarkdown,
			Markdown: renderMarkdown(conv, messages),
		}, nil
	case FormatPDF:
		pdf, err := renderPDF(conv, messages)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Format:   FormatPDF,
			PDF:      pdf,
			Filename: conv.Title + ".pdf",
		}, nil
	default:
		return nil, ErrInvalidExportFormat
	}
}

func renderMarkdown(conv *repository.Conversation, messages []repository.Message) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", conv.Title)
	fmt.Fprintf(&md, "**Started:** %s\n", conv.StartTime.Format(time.RFC3339))
	if conv.EndTime != nil {
		fmt.Fprintf(&md, "**Ended:** %s\n", conv.EndTime.Format(time.RFC3339))
	}
	if conv.Summary != nil {
		fmt.Fprintf(&md, "\n**Summary:** %s\n", *conv.Summary)
	}
	md.WriteString("\n---\n\n")

	for _, msg := range messages {
		icon := "🤖"
		if msg.Role == repository.RoleUser {
			icon = "👤"
		}
		fmt.Fprintf(&md, "### %s %s\n\n", icon, capitalize(msg.Role))
		fmt.Fprintf(&md, "%s\n\n", msg.Content)
		if msg.Bookmarked {
			md.WriteString("🔖 *Bookmarked*\n\n")
		}
		if len(msg.Reactions) > 0 {
			fmt.Fprintf(&md, "Reactions: %s\n\n", strings.Join(msg.Reactions, " "))
		}
	}

	return md.String()
}

func renderPDF(conv *repository.Conversation, messages []repository.Message) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, conv.Title, "", "L", false)
	pdf.Ln(4)

	if conv.Summary != nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, "Summary:", "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, *conv.Summary, "", "L", false)
		pdf.Ln(6)
	}

	for _, msg := range messages {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, capitalize(msg.Role)+":", "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, msg.Content, "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
