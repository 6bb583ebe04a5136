package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chatportal/chatportal-backend/internal/repository"
)

// MessageRepository handles message database operations
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, msg repository.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, role, content, "timestamp", reactions, bookmarked)
		VALUES (:id, :conversation_id, :role, :content, :timestamp, :reactions, :bookmarked)`

	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// Get retrieves a message by ID
func (r *MessageRepository) Get(ctx context.Context, id string) (*repository.Message, error) {
	var msg repository.Message
	query := `SELECT * FROM messages WHERE id = $1`

	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &msg, nil
}

// ListByConversation retrieves all messages for a conversation, oldest first
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]repository.Message, error) {
	messages := []repository.Message{}
	query := `SELECT * FROM messages WHERE conversation_id = $1 ORDER BY "timestamp" ASC`

	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// SetReactions replaces the reaction set on a message
func (r *MessageRepository) SetReactions(ctx context.Context, id string, reactions []string) error {
	query := `UPDATE messages SET reactions = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, pq.StringArray(reactions))
	if err != nil {
		return fmt.Errorf("failed to set reactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetBookmarked stores the bookmark flag on a message
func (r *MessageRepository) SetBookmarked(ctx context.Context, id string, bookmarked bool) error {
	query := `UPDATE messages SET bookmarked = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, bookmarked)
	if err != nil {
		return fmt.Errorf("failed to set bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
