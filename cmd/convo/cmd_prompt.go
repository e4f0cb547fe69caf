package main

import (
	"context"
	"os"
	"strings"

	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/executor"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/session"
)

// PromptFlags are shared by the single prompt commands
type PromptFlags struct {
	Raw       bool `help:"Print only the reply text"`
	ShowUsage bool `help:"Print token usage"`
	NoSave    bool `help:"Do not store the conversation"`
}

// runOnce starts a session in mode, runs ask against it and prints the
// reply. An aborted reply is reported as the command's error.
func runOnce(ctx context.Context, cli *CLI, mode app.Mode, flags PromptFlags, ask func(*appEnv, *session.Session, executor.EventSink) (*executor.AskResult, error)) error {
	rt, err := setupApp(ctx, cli, false, func(cfg *config.Config) {
		if flags.NoSave {
			enabled := false
			cfg.Storage.Enabled = &enabled
		}
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	sess, err := rt.app.StartSession(ctx, app.SessionRequest{Mode: mode})
	if err != nil {
		return err
	}

	sink := rt.consoleSink(os.Stdout, flags.Raw, flags.ShowUsage)
	res, err := ask(rt, sess, sink)
	sink.Close()
	if err != nil {
		return err
	}
	if res.Aborted() {
		return res.Err
	}

	rt.logger.Debug("reply complete", "conversation_id", sess.ID(), "outcome", res.Outcome, "finish_reason", res.FinishReason)
	return nil
}

// AskCmd sends a single prompt
type AskCmd struct {
	Text []string `arg:"" optional:"" help:"The prompt text to send (defaults to a quickstart question)"`
	PromptFlags `embed:""`
}

// Run executes the ask command
func (c *AskCmd) Run(ctx context.Context, cli *CLI) error {
	text := strings.Join(c.Text, " ")
	if strings.TrimSpace(text) == "" {
		text = prompts.QuickstartPrompt
	}
	return runOnce(ctx, cli, app.ModeAsk, c.PromptFlags, func(rt *appEnv, sess *session.Session, sink executor.EventSink) (*executor.AskResult, error) {
		return rt.app.Ask(ctx, sess, text, sink)
	})
}

// FileQACmd asks a question about a document
type FileQACmd struct {
	File     string   `short:"f" required:"" help:"Document path or http(s) URL (.txt, .md, .html)"`
	Question []string `arg:"" help:"The question to ask"`
	PromptFlags `embed:""`
}

// Run executes the fileqa command
func (c *FileQACmd) Run(ctx context.Context, cli *CLI) error {
	question := strings.Join(c.Question, " ")
	return runOnce(ctx, cli, app.ModeFileQA, c.PromptFlags, func(rt *appEnv, sess *session.Session, sink executor.EventSink) (*executor.AskResult, error) {
		return rt.app.AskArticle(ctx, sess, c.File, question, sink)
	})
}

// OutlineCmd generates a blog post outline
type OutlineCmd struct {
	Topic []string `arg:"" help:"The blog post topic"`
	PromptFlags `embed:""`
}

// Run executes the outline command
func (c *OutlineCmd) Run(ctx context.Context, cli *CLI) error {
	topic := strings.Join(c.Topic, " ")
	return runOnce(ctx, cli, app.ModeOutline, c.PromptFlags, func(rt *appEnv, sess *session.Session, sink executor.EventSink) (*executor.AskResult, error) {
		return rt.app.Outline(ctx, sess, topic, sink)
	})
}

// SummarizeCmd summarizes a document
type SummarizeCmd struct {
	Source    string `arg:"" help:"Document path or http(s) URL"`
	Sentences int    `short:"n" default:"3" help:"Number of sentences"`
	PromptFlags `embed:""`
}

// Run executes the summarize command
func (c *SummarizeCmd) Run(ctx context.Context, cli *CLI) error {
	return runOnce(ctx, cli, app.ModeFileQA, c.PromptFlags, func(rt *appEnv, sess *session.Session, sink executor.EventSink) (*executor.AskResult, error) {
		return rt.app.Summarize(ctx, sess, c.Source, c.Sentences, sink)
	})
}
