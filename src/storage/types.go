package storage

import "time"

// Conversation is a persisted chat transcript. Its ID is the session ID.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Mode      string    `json:"mode" db:"mode"`
	Model     string    `json:"model" db:"model"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Message is one committed turn of a conversation. Seq is the turn's index
// in the transcript.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Seq            int       `json:"seq" db:"seq"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	Aborted        bool      `json:"aborted" db:"aborted"`
	Tokens         int       `json:"tokens" db:"tokens"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ConversationSummary is a conversation with its message count, used for listings.
type ConversationSummary struct {
	Conversation
	Messages int `json:"messages" db:"messages"`
}
