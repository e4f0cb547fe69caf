package app

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/executor"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/session"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	client *fakeClient
}

func (p *fakeProvider) GetModels(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	return []*aisdk.ModelInfo{{ID: "fake-model", ContextLength: 8192}}, nil
}

func (p *fakeProvider) Model(ctx context.Context, name string) (aisdk.ModelClient, error) {
	return p.client, nil
}

type fakeClient struct {
	reply string

	mu       sync.Mutex
	requests []*aisdk.ChatCompletionRequest
}

func (c *fakeClient) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return &aisdk.ChatCompletionResponse{
		Choices: []aisdk.Choice{{Message: aisdk.Message{Role: "assistant", Content: c.reply}, FinishReason: "stop"}},
	}, nil
}

func (c *fakeClient) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	return nil, &aisdk.ProviderError{Op: "chat_stream", Message: "streaming not supported"}
}

func (c *fakeClient) GetModelInfo() *aisdk.ModelInfo {
	return &aisdk.ModelInfo{ID: "fake-model"}
}

func (c *fakeClient) lastUserMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.requests[len(c.requests)-1].Messages
	return msgs[len(msgs)-1].Content
}

func newTestApp(t *testing.T, storageEnabled bool) (*App, *fakeClient, afero.Fs) {
	t.Helper()

	cfg := config.DefaultConfig()
	stream := false
	cfg.Chat.Stream = &stream
	cfg.Storage.DatabasePath = "file::memory:"
	cfg.Storage.Enabled = &storageEnabled
	cfg.Files.PromptsDir = ""

	fsys := afero.NewMemMapFs()
	client := &fakeClient{reply: "Sloane Stephens."}

	a, err := New(context.Background(), Options{
		Config:     cfg,
		Fs:         fsys,
		WorkingDir: "/work",
		Provider:   &fakeProvider{client: client},
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return a, client, fsys
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.APIKey = ""

	_, err := New(context.Background(), Options{Config: cfg, Fs: afero.NewMemMapFs()})
	assert.ErrorIs(t, err, config.ErrNoAPIKey)
}

func TestModeGreeting(t *testing.T) {
	assert.Equal(t, prompts.ChatGreeting, ModeChat.Greeting())
	assert.Equal(t, prompts.SearchGreeting, ModeSearch.Greeting())
	assert.Empty(t, ModeAsk.Greeting())
	assert.Empty(t, ModeFileQA.Greeting())
}

func TestSessionIsRecordedAndResumed(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t, true)

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeSearch})
	require.NoError(t, err)
	require.Len(t, sess.Snapshot(), 1)
	assert.Equal(t, prompts.SearchGreeting, sess.Snapshot()[0].Content)

	res, err := a.Ask(ctx, sess, "Who won the 2017 US Open women's final?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sloane Stephens.", res.Turn.Content)

	convs, err := a.Conversations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, sess.ID(), convs[0].ID)
	assert.Equal(t, "search", convs[0].Mode)
	assert.Equal(t, "Who won the 2017 US Open women's final?", convs[0].Title)
	assert.Equal(t, 3, convs[0].Messages)

	resumed, err := a.StartSession(ctx, SessionRequest{Mode: ModeSearch, Resume: true})
	require.NoError(t, err)
	assert.Equal(t, sess.ID(), resumed.ID())
	require.Len(t, resumed.Snapshot(), 3)
	for i, turn := range sess.Snapshot() {
		got := resumed.Snapshot()[i]
		assert.Equal(t, turn.Role, got.Role)
		assert.Equal(t, turn.Content, got.Content)
	}

	_, err = a.Ask(ctx, resumed, "And in 2018?", nil)
	require.NoError(t, err)

	conv, turns, err := a.Transcript(ctx, sess.ID())
	require.NoError(t, err)
	assert.Equal(t, "search", conv.Mode)
	require.Len(t, turns, 5)
	assert.Equal(t, "And in 2018?", turns[3].Content)
}

// notices keeps the system messages sent to a sink.
type notices struct {
	mu       sync.Mutex
	messages []*executor.SystemMessageEvent
}

func (n *notices) Process(e executor.ConversationEvent) error {
	if msg, ok := e.(*executor.SystemMessageEvent); ok {
		n.mu.Lock()
		n.messages = append(n.messages, msg)
		n.mu.Unlock()
	}
	return nil
}

func (n *notices) Close() error { return nil }

func TestResumeSendsNotice(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t, true)

	rec := &notices{}
	sink := executor.NewChannelEventSink(8, rec)
	defer sink.Close()

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeChat, Events: sink})
	require.NoError(t, err)
	sink.Flush()
	assert.Empty(t, rec.messages)

	_, err = a.Ask(ctx, sess, "hello", nil)
	require.NoError(t, err)

	_, err = a.StartSession(ctx, SessionRequest{Mode: ModeChat, ConversationID: sess.ID(), Events: sink})
	require.NoError(t, err)
	sink.Flush()

	require.Len(t, rec.messages, 1)
	assert.Equal(t, "info", rec.messages[0].Purpose)
	assert.Equal(t, sess.ID(), rec.messages[0].ConversationID)
	assert.Contains(t, rec.messages[0].Message, "(3 turns)")
}

func TestStartSessionUnknownConversation(t *testing.T) {
	a, _, _ := newTestApp(t, true)

	_, err := a.StartSession(context.Background(), SessionRequest{ConversationID: "missing"})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, _, err = a.Transcript(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestResumeWithoutHistoryStartsFresh(t *testing.T) {
	a, _, _ := newTestApp(t, true)

	sess, err := a.StartSession(context.Background(), SessionRequest{Mode: ModeChat, Resume: true})
	require.NoError(t, err)
	require.Len(t, sess.Snapshot(), 1)
	assert.Equal(t, prompts.ChatGreeting, sess.Snapshot()[0].Content)
}

func TestStorageDisabled(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t, false)
	assert.Nil(t, a.Store)

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeAsk})
	require.NoError(t, err)
	assert.Empty(t, sess.Snapshot())

	_, err = a.Ask(ctx, sess, prompts.QuickstartPrompt, nil)
	require.NoError(t, err)
	assert.Len(t, sess.Snapshot(), 2)

	_, err = a.Conversations(ctx, 10)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, err = a.StartSession(ctx, SessionRequest{Resume: true})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestAskArticle(t *testing.T) {
	ctx := context.Background()
	a, client, fsys := newTestApp(t, false)

	require.NoError(t, afero.WriteFile(fsys, "/work/notes.md", []byte("# Final\n\nSloane Stephens beat Madison Keys.\n"), 0o644))

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeFileQA})
	require.NoError(t, err)

	_, err = a.AskArticle(ctx, sess, "notes.md", "Who won?", nil)
	require.NoError(t, err)

	prompt := client.lastUserMessage()
	assert.Contains(t, prompt, "<article>")
	assert.Contains(t, prompt, "Sloane Stephens beat Madison Keys.")
	assert.True(t, strings.HasSuffix(prompt, "Who won?"))
	require.NotNil(t, client.requests[0].MaxTokens)
	assert.Equal(t, 300, *client.requests[0].MaxTokens)

	_, err = a.AskArticle(ctx, sess, "missing.md", "Who won?", nil)
	assert.Error(t, err)
}

func TestOutline(t *testing.T) {
	ctx := context.Background()
	a, client, _ := newTestApp(t, false)

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeOutline})
	require.NoError(t, err)

	_, err = a.Outline(ctx, sess, "learning Go", nil)
	require.NoError(t, err)
	assert.Contains(t, client.lastUserMessage(), "learning Go")

	_, err = a.Outline(ctx, sess, "  ", nil)
	assert.ErrorIs(t, err, prompts.ErrEmptyInput)
	assert.Len(t, sess.Snapshot(), 2)
}

func TestStreamingFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t, true)
	stream := true
	a.Config.Chat.Stream = &stream

	sess, err := a.StartSession(ctx, SessionRequest{Mode: ModeChat})
	require.NoError(t, err)

	res, err := a.Ask(ctx, sess, "hello", nil)
	require.NoError(t, err)
	assert.True(t, res.Aborted())
	assert.Equal(t, "Error: streaming not supported", res.Turn.Content)

	_, turns, err := a.Transcript(ctx, sess.ID())
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.True(t, turns[2].Aborted)
	assert.Equal(t, session.RoleAssistant, turns[2].Role)
}
