package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chatportal/chatportal-backend/internal/inference"
	"github.com/chatportal/chatportal-backend/internal/repository"
)

const insightsSystemPrompt = "You analyze past conversations and provide insights based on their summaries."

const noConversationsAnswer = "No past conversations found to analyze."

// QueryResult is the answer to an insights query plus the conversations
// whose summaries fed it.
type QueryResult struct {
	Answer                string                    `json:"answer"`
	RelevantConversations []repository.Conversation `json:"relevant_conversations"`
	Suggestions           []string                  `json:"suggestions"`
}

// InsightsService answers free-text questions over past conversation
// summaries.
type InsightsService struct {
	conversationRepo repository.ConversationRepository
	completer        inference.Completer
}

// NewInsightsService creates a new insights service
func NewInsightsService(conversationRepo repository.ConversationRepository, completer inference.Completer) *InsightsService {
	return &InsightsService{
		conversationRepo: conversationRepo,
		completer:        completer,
	}
}

// Query builds a context document from all ended conversations' summaries
// and asks the model the user's question over it. The conversation set is
// not ranked or filtered by relevance.
func (s *InsightsService) Query(ctx context.Context, query string) (*QueryResult, error) {
	ended, err := s.conversationRepo.ListEndedWithSummary(ctx)
	if err != nil {
		return nil, err
	}

	if len(ended) == 0 {
		return &QueryResult{
			Answer:                noConversationsAnswer,
			RelevantConversations: []repository.Conversation{},
			Suggestions:           []string{},
		}, nil
	}

	var contextDoc strings.Builder
	for i, conv := range ended {
		if i > 0 {
			contextDoc.WriteString("\n\n")
		}
		fmt.Fprintf(&contextDoc, "Conversation %d (Title: %s):\n%s", i+1, conv.Title, *conv.Summary)
	}

	prompt := []inference.Message{
		{Role: "system", Content: insightsSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Past conversations:\n\n%s\n\nUser question: %s\n\nProvide a clear answer:",
			contextDoc.String(), query)},
	}

	answer, err := s.completer.Complete(ctx, prompt, completionMaxTokens)
	if err != nil {
		logrus.WithError(err).Warn("inference unavailable, returning placeholder answer")
		return &QueryResult{
			Answer:                inference.UnavailableMessage,
			RelevantConversations: []repository.Conversation{},
			Suggestions:           []string{},
		}, nil
	}

	return &QueryResult{
		Answer:                answer,
		RelevantConversations: ended,
		Suggestions:           []string{},
	}, nil
}
