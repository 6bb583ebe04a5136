package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chatportal/chatportal-backend/internal/repository"
)

// ConversationRepository handles conversation database operations
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conv repository.Conversation) error {
	query := `
		INSERT INTO conversations (id, title, status, summary, start_time, end_time, share_token)
		VALUES (:id, :title, :status, :summary, :start_time, :end_time, :share_token)`

	if _, err := r.db.NamedExecContext(ctx, query, conv); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// Get retrieves a conversation by ID
func (r *ConversationRepository) Get(ctx context.Context, id string) (*repository.Conversation, error) {
	var conv repository.Conversation
	query := `SELECT * FROM conversations WHERE id = $1`

	if err := r.db.GetContext(ctx, &conv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conv, nil
}

// List retrieves all conversations, newest first
func (r *ConversationRepository) List(ctx context.Context) ([]repository.Conversation, error) {
	conversations := []repository.Conversation{}
	query := `SELECT * FROM conversations ORDER BY start_time DESC`

	if err := r.db.SelectContext(ctx, &conversations, query); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	return conversations, nil
}

// ListEndedWithSummary retrieves ended conversations that carry a summary
func (r *ConversationRepository) ListEndedWithSummary(ctx context.Context) ([]repository.Conversation, error) {
	conversations := []repository.Conversation{}
	query := `
		SELECT * FROM conversations
		WHERE status = $1 AND summary IS NOT NULL
		ORDER BY start_time DESC`

	if err := r.db.SelectContext(ctx, &conversations, query, repository.StatusEnded); err != nil {
		return nil, fmt.Errorf("failed to list ended conversations: %w", err)
	}

	return conversations, nil
}

// GetByShareToken retrieves a conversation by its share token
func (r *ConversationRepository) GetByShareToken(ctx context.Context, token string) (*repository.Conversation, error) {
	var conv repository.Conversation
	query := `SELECT * FROM conversations WHERE share_token = $1`

	if err := r.db.GetContext(ctx, &conv, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation by share token: %w", err)
	}

	return &conv, nil
}

// End marks a conversation ended and records its summary and end time
func (r *ConversationRepository) End(ctx context.Context, id, summary string, endTime time.Time) error {
	query := `
		UPDATE conversations
		SET status = $2, summary = $3, end_time = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, repository.StatusEnded, summary, endTime)
	if err != nil {
		return fmt.Errorf("failed to end conversation: %w", err)
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

// SetShareToken stores a share token on a conversation
func (r *ConversationRepository) SetShareToken(ctx context.Context, id, token string) error {
	query := `UPDATE conversations SET share_token = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("failed to set share token: %w", err)
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
