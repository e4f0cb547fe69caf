package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/render"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/storage"
	"github.com/elee1766/convo/src/theme"
)

// HistoryCmd browses stored conversations
type HistoryCmd struct {
	List HistoryListCmd `cmd:"" default:"1" help:"List conversations"`
	Show HistoryShowCmd `cmd:"" help:"Print a conversation"`
}

// openHistory opens the conversation database without requiring an API key.
func openHistory(ctx context.Context, cli *CLI) (*storage.DB, *config.Config, error) {
	manager, err := loadConfig(cli)
	if err != nil {
		return nil, nil, err
	}
	cfg := manager.GetConfig()
	if !cfg.Storage.IsEnabled() {
		return nil, nil, app.ErrStorageDisabled
	}

	db, err := storage.Open(ctx, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return db, cfg, nil
}

// HistoryListCmd lists stored conversations
type HistoryListCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum conversations to list"`
	Format string `help:"Output format (table, json)" enum:"table,json" default:"table"`
}

// Run executes the history list command
func (c *HistoryListCmd) Run(ctx context.Context, cli *CLI) error {
	db, _, err := openHistory(ctx, cli)
	if err != nil {
		return err
	}
	defer db.Close()

	convs, err := storage.ListConversations(ctx, db.DB(), c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if c.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(convs)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tUpdated\tMode\tTurns\tTitle")
	fmt.Fprintln(w, "--\t-------\t----\t-----\t-----")
	for _, conv := range convs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			conv.ID, conv.UpdatedAt.Local().Format("2006-01-02 15:04"), conv.Mode, conv.Messages, conv.Title)
	}
	return nil
}

// HistoryShowCmd prints a stored conversation
type HistoryShowCmd struct {
	ID     string `arg:"" help:"Conversation ID"`
	Format string `help:"Output format (text, json)" enum:"text,json" default:"text"`
}

// Run executes the history show command
func (c *HistoryShowCmd) Run(ctx context.Context, cli *CLI) error {
	db, cfg, err := openHistory(ctx, cli)
	if err != nil {
		return err
	}
	defer db.Close()

	conv, err := storage.GetConversationByID(ctx, db.DB(), c.ID)
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("%w: %s", app.ErrConversationNotFound, c.ID)
	}

	turns, err := storage.LoadTurns(ctx, db.DB(), conv.ID)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			*storage.Conversation
			Turns []session.Turn `json:"turns"`
		}{conv, turns})
	}

	r := render.New(theme.ByName(cfg.UI.Theme))
	r.Plain = cfg.UI.Plain
	if conv.Title != "" {
		fmt.Printf("%s\n\n", conv.Title)
	}
	fmt.Print(r.Transcript(turns, cfg.UI.Width))
	return nil
}
