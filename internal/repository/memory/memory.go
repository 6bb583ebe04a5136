// Package memory provides in-memory implementations of the repository
// interfaces. The service and handler tests run against them.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/chatportal/chatportal-backend/internal/repository"
)

// ConversationRepository is a map-backed conversation store.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]repository.Conversation
}

// NewConversationRepository creates an empty conversation store.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[string]repository.Conversation),
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conv repository.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conv.ID] = conv
	return nil
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (*repository.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &conv, nil
}

func (r *ConversationRepository) List(ctx context.Context) ([]repository.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conversations := make([]repository.Conversation, 0, len(r.conversations))
	for _, conv := range r.conversations {
		conversations = append(conversations, conv)
	}
	sortByStartTimeDesc(conversations)
	return conversations, nil
}

func (r *ConversationRepository) ListEndedWithSummary(ctx context.Context) ([]repository.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conversations := []repository.Conversation{}
	for _, conv := range r.conversations {
		if conv.Status == repository.StatusEnded && conv.Summary != nil {
			conversations = append(conversations, conv)
		}
	}
	sortByStartTimeDesc(conversations)
	return conversations, nil
}

func (r *ConversationRepository) GetByShareToken(ctx context.Context, token string) (*repository.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, conv := range r.conversations {
		if conv.ShareToken != nil && *conv.ShareToken == token {
			found := conv
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ConversationRepository) End(ctx context.Context, id, summary string, endTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return repository.ErrNotFound
	}
	conv.Status = repository.StatusEnded
	conv.Summary = &summary
	conv.EndTime = &endTime
	r.conversations[id] = conv
	return nil
}

func (r *ConversationRepository) SetShareToken(ctx context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return repository.ErrNotFound
	}
	conv.ShareToken = &token
	r.conversations[id] = conv
	return nil
}

func sortByStartTimeDesc(conversations []repository.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].StartTime.After(conversations[j].StartTime)
	})
}

// MessageRepository is a map-backed message store.
type MessageRepository struct {
	mu       sync.RWMutex
	messages map[string]repository.Message
	order    []string
}

// NewMessageRepository creates an empty message store.
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		messages: make(map[string]repository.Message),
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg repository.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ID] = msg
	r.order = append(r.order, msg.ID)
	return nil
}

func (r *MessageRepository) Get(ctx context.Context, id string) (*repository.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &msg, nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]repository.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	messages := []repository.Message{}
	// Insertion order preserves timestamp ties between messages created
	// within the same clock tick.
	for _, id := range r.order {
		if msg := r.messages[id]; msg.ConversationID == conversationID {
			messages = append(messages, msg)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (r *MessageRepository) SetReactions(ctx context.Context, id string, reactions []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	msg.Reactions = pq.StringArray(reactions)
	r.messages[id] = msg
	return nil
}

func (r *MessageRepository) SetBookmarked(ctx context.Context, id string, bookmarked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	msg.Bookmarked = bookmarked
	r.messages[id] = msg
	return nil
}
