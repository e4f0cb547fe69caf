package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/executor"
	"github.com/elee1766/convo/src/session"
)

const chatHelp = `Commands:
  /history  print the conversation so far
  /id       print the conversation ID
  /help     show this help
  /quit     leave the chat`

// ChatCmd runs an interactive conversation over stdin
type ChatCmd struct {
	Search       bool   `help:"Open with the web search greeting"`
	Resume       bool   `short:"r" help:"Resume the most recent conversation"`
	Conversation string `help:"Resume a specific conversation by ID"`
	ShowUsage    bool   `help:"Print token usage after each reply"`
}

// Run executes the chat command
func (c *ChatCmd) Run(ctx context.Context, cli *CLI) error {
	rt, err := setupApp(ctx, cli, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	mode := app.ModeChat
	if c.Search {
		mode = app.ModeSearch
	}

	sink := rt.consoleSink(os.Stdout, false, c.ShowUsage)
	defer sink.Close()

	sess, err := rt.app.StartSession(ctx, app.SessionRequest{
		Mode:           mode,
		Resume:         c.Resume,
		ConversationID: c.Conversation,
		Events:         sink,
	})
	if err != nil {
		return err
	}
	sink.Flush()

	return runChat(ctx, rt, sess, sink, os.Stdin, os.Stdout)
}

// runChat reads user turns from in until EOF, /quit or cancellation.
// Replies are printed through sink; everything else goes to out.
func runChat(ctx context.Context, rt *appEnv, sess *session.Session, sink *executor.ChannelEventSink, in io.Reader, out io.Writer) error {
	width := rt.config.UI.Width
	fmt.Fprint(out, rt.app.Renderer.Transcript(sess.Snapshot(), width))
	if sess.Len() > 0 {
		fmt.Fprintln(out)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := scanner.Text()

		switch strings.TrimSpace(text) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, chatHelp)
			continue
		case "/id":
			fmt.Fprintln(out, sess.ID())
			continue
		case "/history":
			fmt.Fprintln(out, rt.app.Renderer.Transcript(sess.Snapshot(), width))
			continue
		}

		_, err := rt.app.Ask(ctx, sess, text, sink)
		sink.Flush()
		if ctx.Err() != nil {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			if errors.Is(err, session.ErrInvalidInput) {
				continue
			}
			return err
		}
	}
}
