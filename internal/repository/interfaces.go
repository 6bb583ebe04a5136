package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Conversation statuses. The transition is one-way: active to ended.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation represents a titled, time-bounded chat.
type Conversation struct {
	ID         string     `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Status     string     `db:"status" json:"status"`
	Summary    *string    `db:"summary" json:"summary"`
	StartTime  time.Time  `db:"start_time" json:"start_time"`
	EndTime    *time.Time `db:"end_time" json:"end_time"`
	ShareToken *string    `db:"share_token" json:"share_token"`
}

// Ended reports whether the conversation has been ended.
func (c *Conversation) Ended() bool {
	return c.Status == StatusEnded
}

// Message represents one turn within a conversation.
type Message struct {
	ID             string         `db:"id" json:"id"`
	ConversationID string         `db:"conversation_id" json:"conversation_id"`
	Role           string         `db:"role" json:"role"`
	Content        string         `db:"content" json:"content"`
	Timestamp      time.Time      `db:"timestamp" json:"timestamp"`
	Reactions      pq.StringArray `db:"reactions" json:"reactions"`
	Bookmarked     bool           `db:"bookmarked" json:"bookmarked"`
}

// ConversationRepository defines conversation storage operations.
// Conversations are never deleted.
type ConversationRepository interface {
	Create(ctx context.Context, conv Conversation) error
	Get(ctx context.Context, id string) (*Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	ListEndedWithSummary(ctx context.Context) ([]Conversation, error)
	GetByShareToken(ctx context.Context, token string) (*Conversation, error)
	End(ctx context.Context, id, summary string, endTime time.Time) error
	SetShareToken(ctx context.Context, id, token string) error
}

// MessageRepository defines message storage operations.
// Messages are never deleted; only reactions and bookmarks mutate.
type MessageRepository interface {
	Create(ctx context.Context, msg Message) error
	Get(ctx context.Context, id string) (*Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]Message, error)
	SetReactions(ctx context.Context, id string, reactions []string) error
	SetBookmarked(ctx context.Context, id string, bookmarked bool) error
}
