package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/elee1766/convo/src/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	versions, err := db.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)

	applied, err := db.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestExtractUpMigration(t *testing.T) {
	content := `-- +goose Up
-- +goose StatementBegin
CREATE TABLE a (id TEXT);
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
DROP TABLE a;
-- +goose StatementEnd
`
	assert.Equal(t, "CREATE TABLE a (id TEXT);", extractUpMigration(content))
}

func TestConversationCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	missing, err := GetConversationByID(ctx, db.DB(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	latest, err := GetLatestConversation(ctx, db.DB())
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	older := &Conversation{Title: "older", Model: "gpt-4o-mini", CreatedAt: base}
	newer := &Conversation{Title: "newer", Mode: "search", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, CreateConversation(ctx, db.DB(), older))
	require.NoError(t, CreateConversation(ctx, db.DB(), newer))
	assert.NotEmpty(t, older.ID)
	assert.Equal(t, "chat", older.Mode)

	got, err := GetConversationByID(ctx, db.DB(), older.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "older", got.Title)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.True(t, base.Equal(got.CreatedAt))

	latest, err = GetLatestConversation(ctx, db.DB())
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	require.NoError(t, TouchConversation(ctx, db.DB(), older.ID, base.Add(2*time.Hour)))
	latest, err = GetLatestConversation(ctx, db.DB())
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)

	require.NoError(t, AppendMessage(ctx, db.DB(), &Message{ConversationID: older.ID, Seq: 0, Role: "user", Content: "hi"}))

	list, err := ListConversations(ctx, db.DB(), 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID)
	assert.Equal(t, 1, list[0].Messages)
	assert.Equal(t, 0, list[1].Messages)

	list, err = ListConversations(ctx, db.DB(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAppendMessageRejectsDuplicateSeq(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	require.NoError(t, AppendMessage(ctx, db.DB(), &Message{ConversationID: conv.ID, Seq: 0, Role: "user", Content: "a"}))
	assert.Error(t, AppendMessage(ctx, db.DB(), &Message{ConversationID: conv.ID, Seq: 0, Role: "user", Content: "b"}))
}

func TestRecorderPersistsSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{Model: "gpt-4o-mini"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	rec := NewRecorder(db.DB(), time.Second)
	rec.Count = func(s string) int { return len(s) }

	s := session.New(session.Options{
		ID:       conv.ID,
		Greeting: "How can I help you?",
		Observer: rec,
	})

	require.NoError(t, s.AppendUserTurn("Who won the Women's U.S. Open in 2018?"))
	h, err := s.BeginAssistantTurn()
	require.NoError(t, err)
	require.NoError(t, s.AppendFragment(h, "Sloane Stephens."))
	_, err = s.FinalizeAssistantTurn(h)
	require.NoError(t, err)

	require.NoError(t, s.AppendUserTurn("And 2019?"))
	h, err = s.BeginAssistantTurn()
	require.NoError(t, err)
	require.NoError(t, s.AppendFragment(h, "Bianca"))
	_, err = s.AbortAssistantTurn(h, "timeout")
	require.NoError(t, err)

	messages, err := GetMessagesByConversationID(ctx, db.DB(), conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, i, m.Seq)
	}
	assert.Equal(t, "Sloane Stephens.", messages[2].Content)
	assert.Equal(t, len("Sloane Stephens."), messages[2].Tokens)
	assert.True(t, messages[4].Aborted)
	assert.Equal(t, "Error: timeout", messages[4].Content)

	got, err := GetConversationByID(ctx, db.DB(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Who won the Women's U.S. Open in 2018?", got.Title)

	turns, err := LoadTurns(ctx, db.DB(), conv.ID)
	require.NoError(t, err)
	snapshot := s.Snapshot()
	require.Len(t, turns, len(snapshot))
	for i := range turns {
		assert.Equal(t, snapshot[i].Role, turns[i].Role)
		assert.Equal(t, snapshot[i].Content, turns[i].Content)
		assert.Equal(t, snapshot[i].Aborted, turns[i].Aborted)
	}

	restored := session.New(session.Options{ID: conv.ID, Greeting: "How can I help you?", History: turns})
	assert.Equal(t, len(snapshot), restored.Len())
}

func TestRecorderMissingConversation(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db.DB(), time.Second)

	err := rec.OnCommit("does-not-exist", 0, session.Turn{Role: session.RoleUser, Content: "hi", CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello\n  world ", "hello world"},
		{"short", "short"},
		{strings.Repeat("a", 68), strings.Repeat("a", 59) + "…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Title(tt.in))
	}
}
