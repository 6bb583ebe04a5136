package services

import (
	"github.com/chatportal/chatportal-backend/internal/inference"
	"github.com/chatportal/chatportal-backend/internal/repository"
)

// Services holds all service instances
type Services struct {
	Chat     *ChatService
	Insights *InsightsService
	Share    *ShareService
	Export   *ExportService
}

// NewServices creates the service container
func NewServices(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	completer inference.Completer,
) *Services {
	return &Services{
		Chat:     NewChatService(conversationRepo, messageRepo, completer),
		Insights: NewInsightsService(conversationRepo, completer),
		Share:    NewShareService(conversationRepo, messageRepo),
		Export:   NewExportService(conversationRepo, messageRepo),
	}
}
