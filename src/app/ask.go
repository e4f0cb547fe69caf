package app

import (
	"context"
	"fmt"

	"github.com/elee1766/convo/src/executor"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/session"
)

// fileQAMaxTokens caps document answers when no reply limit is configured.
const fileQAMaxTokens = 300

// Ask sends text as the next user turn of sess using the configured model
// and chat settings.
func (a *App) Ask(ctx context.Context, sess *session.Session, text string, sink executor.EventSink) (*executor.AskResult, error) {
	return a.ask(ctx, sess, text, 0, sink)
}

// ask is Ask with a reply limit used when the config sets none.
func (a *App) ask(ctx context.Context, sess *session.Session, text string, defaultMaxTokens int, sink executor.EventSink) (*executor.AskResult, error) {
	client, err := a.ModelClient(ctx)
	if err != nil {
		return nil, err
	}

	chat := a.Config.Chat
	req := &executor.AskRequest{
		Session:     sess,
		ModelClient: client,
		Text:        text,
		Stream:      chat.StreamEnabled(),
		Timeout:     a.Config.API.Timeout,
		EventSink:   sink,
	}
	temperature := chat.Temperature
	req.Temperature = &temperature
	maxTokens := chat.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	return a.Executor.Ask(ctx, req)
}

// AskArticle loads source and asks question about its content.
func (a *App) AskArticle(ctx context.Context, sess *session.Session, source, question string, sink executor.EventSink) (*executor.AskResult, error) {
	doc, err := a.Articles.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}
	a.Logger.Debug("loaded article", "source", doc.Source, "format", doc.Format, "title", doc.Title, "tokens", a.Counter.Count(doc.Content))

	text, err := a.Prompts.ArticleQuestion(doc.Content, question)
	if err != nil {
		return nil, err
	}
	return a.ask(ctx, sess, text, fileQAMaxTokens, sink)
}

// Outline asks for a blog post outline about topic.
func (a *App) Outline(ctx context.Context, sess *session.Session, topic string, sink executor.EventSink) (*executor.AskResult, error) {
	text, err := a.Prompts.BlogOutline(topic)
	if err != nil {
		return nil, err
	}
	return a.Ask(ctx, sess, text, sink)
}

// Summarize asks for a summary of source in at most sentences sentences.
func (a *App) Summarize(ctx context.Context, sess *session.Session, source string, sentences int, sink executor.EventSink) (*executor.AskResult, error) {
	doc, err := a.Articles.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}
	text, err := a.Prompts.Render(prompts.SummarizeTemplate, map[string]any{
		"Text":      doc.Content,
		"Sentences": sentences,
	})
	if err != nil {
		return nil, err
	}
	return a.Ask(ctx, sess, text, sink)
}
