package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/chatportal/chatportal-backend/internal/repository"
)

// ShareResult carries the token and the relative URL a shared conversation
// is reachable under.
type ShareResult struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

// SharedConversation is the read-only view exposed through a share token.
type SharedConversation struct {
	Conversation repository.Conversation `json:"conversation"`
	Messages     []repository.Message    `json:"messages"`
}

// ShareService grants read-only access to conversations via opaque tokens.
type ShareService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
}

// NewShareService creates a new share service
func NewShareService(conversationRepo repository.ConversationRepository, messageRepo repository.MessageRepository) *ShareService {
	return &ShareService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// Share returns the conversation's share token, generating one on the first
// call and reusing it afterwards so previously handed-out links stay valid.
func (s *ShareService) Share(ctx context.Context, conversationID string) (*ShareResult, error) {
	conv, err := s.conversationRepo.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if conv.ShareToken != nil {
		return &ShareResult{
			ShareToken: *conv.ShareToken,
			ShareURL:   "/shared/" + *conv.ShareToken,
		}, nil
	}

	token := uuid.New().String()
	if err := s.conversationRepo.SetShareToken(ctx, conversationID, token); err != nil {
		return nil, err
	}

	return &ShareResult{
		ShareToken: token,
		ShareURL:   "/shared/" + token,
	}, nil
}

// GetShared resolves a share token to its conversation and ordered messages.
func (s *ShareService) GetShared(ctx context.Context, token string) (*SharedConversation, error) {
	conv, err := s.conversationRepo.GetByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSharedNotFound
		}
		return nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	return &SharedConversation{
		Conversation: *conv,
		Messages:     messages,
	}, nil
}
