package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elee1766/convo/src/session"
)

var _ session.Observer = (*Recorder)(nil)

// Recorder writes every committed turn of a session to the database.
type Recorder struct {
	db      ExecQuerier
	timeout time.Duration
	// Count, when set, fills the tokens column
	Count func(string) int
}

// NewRecorder returns a Recorder writing to db. Each write is bounded by timeout.
func NewRecorder(db ExecQuerier, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{db: db, timeout: timeout}
}

// OnCommit implements session.Observer. The first user turn becomes the
// conversation title when none is set.
func (r *Recorder) OnCommit(sessionID string, index int, turn session.Turn) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	msg := &Message{
		ConversationID: sessionID,
		Seq:            index,
		Role:           string(turn.Role),
		Content:        turn.Content,
		Aborted:        turn.Aborted,
		CreatedAt:      turn.CreatedAt,
	}
	if r.Count != nil {
		msg.Tokens = r.Count(turn.Content)
	}

	if err := AppendMessage(ctx, r.db, msg); err != nil {
		return fmt.Errorf("failed to store turn %d: %w", index, err)
	}

	if turn.Role == session.RoleUser {
		conv, err := GetConversationByID(ctx, r.db, sessionID)
		if err != nil {
			return err
		}
		if conv != nil && conv.Title == "" {
			if err := SetConversationTitle(ctx, r.db, sessionID, Title(turn.Content)); err != nil {
				return err
			}
		}
	}

	return TouchConversation(ctx, r.db, sessionID, msg.CreatedAt)
}

// LoadTurns reads a stored conversation back as session turns.
func LoadTurns(ctx context.Context, db ExecQuerier, conversationID string) ([]session.Turn, error) {
	messages, err := GetMessagesByConversationID(ctx, db, conversationID)
	if err != nil {
		return nil, err
	}

	turns := make([]session.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, session.Turn{
			Role:      session.Role(m.Role),
			Content:   m.Content,
			Aborted:   m.Aborted,
			CreatedAt: m.CreatedAt,
		})
	}
	return turns, nil
}

// Title derives a single-line conversation title from text.
func Title(text string) string {
	title := strings.Join(strings.Fields(text), " ")
	const maxTitle = 60
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle-1]) + "…"
	}
	return title
}
