package app

import (
	"context"
	"fmt"

	"github.com/elee1766/convo/src/executor"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/storage"
)

// Mode names the kind of conversation a session holds.
type Mode string

const (
	ModeChat    Mode = "chat"
	ModeSearch  Mode = "search"
	ModeAsk     Mode = "ask"
	ModeFileQA  Mode = "fileqa"
	ModeOutline Mode = "outline"
)

// Greeting returns the opening assistant turn for the mode, or "" when the
// mode starts without one.
func (m Mode) Greeting() string {
	switch m {
	case ModeChat:
		return prompts.ChatGreeting
	case ModeSearch:
		return prompts.SearchGreeting
	default:
		return ""
	}
}

// SessionRequest selects the conversation a session continues.
type SessionRequest struct {
	Mode Mode

	// ConversationID continues a stored conversation
	ConversationID string

	// Resume continues the most recently updated conversation, if any
	Resume bool

	// Events receives a notice when a stored conversation is restored
	Events executor.EventSink
}

// StartSession creates a session, restoring a stored conversation when one
// is requested. With storage enabled every committed turn is recorded.
func (a *App) StartSession(ctx context.Context, req SessionRequest) (*session.Session, error) {
	if req.Mode == "" {
		req.Mode = ModeChat
	}

	greeting := req.Mode.Greeting()
	if greeting != "" && a.Config.Chat.Greeting != "" {
		greeting = a.Config.Chat.Greeting
	}

	opts := session.Options{
		Greeting:    greeting,
		Fallback:    a.Config.Chat.FallbackMessage,
		AbortFormat: a.Config.Chat.AbortFormat,
		Logger:      a.Logger,
	}

	if a.Store == nil {
		if req.ConversationID != "" || req.Resume {
			return nil, ErrStorageDisabled
		}
		return session.New(opts), nil
	}

	db := a.Store.DB()
	conv, err := a.findConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	if conv == nil {
		conv = &storage.Conversation{Mode: string(req.Mode), Model: a.Config.Chat.Model}
		if err := storage.CreateConversation(ctx, db, conv); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		a.Logger.Debug("created conversation", "conversation_id", conv.ID, "mode", conv.Mode)
	} else {
		history, err := storage.LoadTurns(ctx, db, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
		opts.History = history
		a.Logger.Debug("restored conversation", "conversation_id", conv.ID, "turns", len(history))

		notice := fmt.Sprintf("Resumed conversation %s (%d turns).", conv.ID, len(history))
		executor.NewEventEmitter(req.Events, conv.ID, len(history)).EmitSystemMessage(notice, "info")
	}

	recorder := storage.NewRecorder(db, a.Config.API.Timeout)
	recorder.Count = a.Counter.Count

	opts.ID = conv.ID
	opts.Observer = recorder
	return session.New(opts), nil
}

func (a *App) findConversation(ctx context.Context, req SessionRequest) (*storage.Conversation, error) {
	db := a.Store.DB()
	switch {
	case req.ConversationID != "":
		conv, err := storage.GetConversationByID(ctx, db, req.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, req.ConversationID)
		}
		return conv, nil
	case req.Resume:
		return storage.GetLatestConversation(ctx, db)
	default:
		return nil, nil
	}
}

// Conversations lists stored conversations, most recent first.
func (a *App) Conversations(ctx context.Context, limit int) ([]storage.ConversationSummary, error) {
	if a.Store == nil {
		return nil, ErrStorageDisabled
	}
	return storage.ListConversations(ctx, a.Store.DB(), limit)
}

// Transcript returns a stored conversation and its turns.
func (a *App) Transcript(ctx context.Context, id string) (*storage.Conversation, []session.Turn, error) {
	if a.Store == nil {
		return nil, nil, ErrStorageDisabled
	}
	db := a.Store.DB()
	conv, err := storage.GetConversationByID(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}
	if conv == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	turns, err := storage.LoadTurns(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}
	return conv, turns, nil
}
