package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

const conversationColumns = `id, title, mode, model, created_at, updated_at`

// GetConversationByID retrieves a conversation by its ID
func GetConversationByID(ctx context.Context, db sqlscan.Querier, conversationID string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &conv, nil
}

// GetLatestConversation retrieves the most recently updated conversation
func GetLatestConversation(ctx context.Context, db sqlscan.Querier) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations ORDER BY updated_at DESC LIMIT 1`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No conversations exist
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns up to limit conversations, newest first.
func ListConversations(ctx context.Context, db sqlscan.Querier, limit int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT c.id, c.title, c.mode, c.model, c.created_at, c.updated_at, COUNT(m.id) AS messages
		FROM conversations c LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.updated_at DESC
		LIMIT ?`
	var convs []ConversationSummary
	if err := sqlscan.Select(ctx, db, &convs, query, limit); err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateConversation creates a new conversation in the database
func CreateConversation(ctx context.Context, db Execer, conversation *Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.Mode == "" {
		conversation.Mode = "chat"
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = conversation.CreatedAt
	}

	query := `INSERT INTO conversations (id, title, mode, model, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, conversation.ID, conversation.Title, conversation.Mode, conversation.Model, conversation.CreatedAt, conversation.UpdatedAt)
	return err
}

// TouchConversation bumps a conversation's updated_at.
func TouchConversation(ctx context.Context, db Execer, conversationID string, at time.Time) error {
	_, err := db.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`, at, conversationID)
	return err
}

// SetConversationTitle sets the title shown in listings.
func SetConversationTitle(ctx context.Context, db Execer, conversationID, title string) error {
	_, err := db.ExecContext(ctx, `UPDATE conversations SET title = ? WHERE id = ?`, title, conversationID)
	return err
}

// GetMessagesByConversationID retrieves all messages for a conversation in transcript order
func GetMessagesByConversationID(ctx context.Context, db sqlscan.Querier, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, seq, role, content, aborted, tokens, created_at FROM messages WHERE conversation_id = ? ORDER BY seq`
	var messages []Message
	err := sqlscan.Select(ctx, db, &messages, query, conversationID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// AppendMessage stores a committed turn.
func AppendMessage(ctx context.Context, db Execer, message *Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `INSERT INTO messages (id, conversation_id, seq, role, content, aborted, tokens, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		message.ID,
		message.ConversationID,
		message.Seq,
		message.Role,
		message.Content,
		message.Aborted,
		message.Tokens,
		message.CreatedAt,
	)
	return err
}
