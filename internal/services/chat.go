package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/chatportal/chatportal-backend/internal/inference"
	"github.com/chatportal/chatportal-backend/internal/repository"
)

const (
	chatSystemPrompt = "You are a helpful, friendly AI assistant. Provide clear and concise responses."

	summarySystemPrompt = "You summarize conversations concisely, highlighting key points and topics discussed."

	completionMaxTokens = 500

	defaultTitle = "New Conversation"
)

// Fixed follow-up prompts returned with an active conversation.
var followUpSuggestions = []string{
	"Tell me about yourself",
	"What can you help me with?",
	"Explain a complex topic simply",
}

// ConversationDetail is a conversation with its ordered history and the
// suggested follow-up prompts.
type ConversationDetail struct {
	Conversation repository.Conversation `json:"conversation"`
	Messages     []repository.Message    `json:"messages"`
	Suggestions  []string                `json:"suggestions"`
}

// ChatService manages the conversation lifecycle and message turns
type ChatService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	completer        inference.Completer
}

// NewChatService creates a new chat service
func NewChatService(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	completer inference.Completer,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		completer:        completer,
	}
}

// CreateConversation creates a new active conversation
func (s *ChatService) CreateConversation(ctx context.Context, title string) (*repository.Conversation, error) {
	if title == "" {
		title = defaultTitle
	}

	conv := repository.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    repository.StatusActive,
		StartTime: time.Now().UTC(),
	}

	if err := s.conversationRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// ListConversations returns all conversations, newest first
func (s *ChatService) ListConversations(ctx context.Context) ([]repository.Conversation, error) {
	return s.conversationRepo.List(ctx)
}

// GetConversation returns a conversation with its full message history
func (s *ChatService) GetConversation(ctx context.Context, id string) (*ConversationDetail, error) {
	conv, err := s.conversationRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	suggestions := []string{}
	if !conv.Ended() {
		suggestions = followUpSuggestions
	}

	return &ConversationDetail{
		Conversation: *conv,
		Messages:     messages,
		Suggestions:  suggestions,
	}, nil
}

// SendMessage persists a user turn, asks the model for a reply over the full
// history, and persists and returns the assistant turn. When inference is
// unavailable the assistant turn carries the fixed placeholder instead.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, content string) (*repository.Message, error) {
	conv, err := s.conversationRepo.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conv.Ended() {
		return nil, ErrConversationEnded
	}

	userMsg := repository.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           repository.RoleUser,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Reactions:      pq.StringArray{},
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	prompt := make([]inference.Message, 0, len(history)+1)
	prompt = append(prompt, inference.Message{Role: "system", Content: chatSystemPrompt})
	for _, msg := range history {
		prompt = append(prompt, inference.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := s.completer.Complete(ctx, prompt, completionMaxTokens)
	if err != nil {
		logrus.WithError(err).WithField("conversation_id", conversationID).
			Warn("inference unavailable, storing placeholder reply")
		reply = inference.UnavailableMessage
	}

	assistantMsg := repository.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           repository.RoleAssistant,
		Content:        reply,
		Timestamp:      time.Now().UTC(),
		Reactions:      pq.StringArray{},
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return &assistantMsg, nil
}

// EndConversation summarizes the transcript, marks the conversation ended,
// and returns it. Ending an already-ended conversation is rejected.
func (s *ChatService) EndConversation(ctx context.Context, id string) (*repository.Conversation, error) {
	conv, err := s.conversationRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conv.Ended() {
		return nil, ErrConversationAlreadyEnded
	}

	history, err := s.messageRepo.ListByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	var transcript strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := []inference.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: "Summarize this conversation in 2-3 sentences:\n\n" + transcript.String()},
	}

	summary, err := s.completer.Complete(ctx, prompt, completionMaxTokens)
	if err != nil {
		logrus.WithError(err).WithField("conversation_id", id).
			Warn("inference unavailable, storing placeholder summary")
		summary = inference.UnavailableMessage
	}

	endTime := time.Now().UTC()
	if err := s.conversationRepo.End(ctx, id, summary, endTime); err != nil {
		return nil, err
	}

	conv.Status = repository.StatusEnded
	conv.Summary = &summary
	conv.EndTime = &endTime
	return conv, nil
}

// ReactToMessage toggles a reaction on a message and returns the resulting
// reaction set.
func (s *ChatService) ReactToMessage(ctx context.Context, messageID, reaction string) ([]string, error) {
	msg, err := s.messageRepo.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	reactions := make([]string, 0, len(msg.Reactions)+1)
	found := false
	for _, existing := range msg.Reactions {
		if existing == reaction {
			found = true
			continue
		}
		reactions = append(reactions, existing)
	}
	if !found {
		reactions = append(reactions, reaction)
	}

	if err := s.messageRepo.SetReactions(ctx, messageID, reactions); err != nil {
		return nil, err
	}

	return reactions, nil
}

// BookmarkMessage flips the bookmark flag on a message and returns the new
// value.
func (s *ChatService) BookmarkMessage(ctx context.Context, messageID string) (bool, error) {
	msg, err := s.messageRepo.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrMessageNotFound
		}
		return false, err
	}

	bookmarked := !msg.Bookmarked
	if err := s.messageRepo.SetBookmarked(ctx, messageID, bookmarked); err != nil {
		return false, err
	}

	return bookmarked, nil
}
