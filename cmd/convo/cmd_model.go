package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/config"
)

// ModelCmd manages model operations
type ModelCmd struct {
	List   ModelListCmd   `cmd:"" default:"1" help:"List available models"`
	Search ModelSearchCmd `cmd:"" help:"Search for models by name"`
}

// ModelListCmd lists available models
type ModelListCmd struct {
	Format string `help:"Output format (table, json)" enum:"table,json" default:"table"`
}

// Run executes the model list command
func (c *ModelListCmd) Run(ctx context.Context, cli *CLI) error {
	models, current, err := listModels(ctx, cli)
	if err != nil {
		return err
	}
	return printModels(models, current, c.Format)
}

// ModelSearchCmd searches for models by name
type ModelSearchCmd struct {
	Query  string `arg:"" help:"Search query"`
	Format string `help:"Output format (table, json)" enum:"table,json" default:"table"`
}

// Run executes the model search command
func (c *ModelSearchCmd) Run(ctx context.Context, cli *CLI) error {
	models, current, err := listModels(ctx, cli)
	if err != nil {
		return err
	}

	var matches []*aisdk.ModelInfo
	query := strings.ToLower(c.Query)
	for _, model := range models {
		if strings.Contains(strings.ToLower(model.ID), query) ||
			strings.Contains(strings.ToLower(model.Name), query) {
			matches = append(matches, model)
		}
	}

	if len(matches) == 0 {
		fmt.Printf("No models found matching '%s'\n", c.Query)
		return nil
	}
	return printModels(matches, current, c.Format)
}

// listModels returns the provider's models sorted by ID and the configured model.
func listModels(ctx context.Context, cli *CLI) ([]*aisdk.ModelInfo, string, error) {
	rt, err := setupApp(ctx, cli, false, func(cfg *config.Config) {
		enabled := false
		cfg.Storage.Enabled = &enabled
	})
	if err != nil {
		return nil, "", err
	}
	defer rt.Close()

	models, err := rt.app.Models(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list models: %w", err)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, rt.config.Chat.Model, nil
}

func printModels(models []*aisdk.ModelInfo, current, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(models)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, " \tID\tOwner\tContext Length")
	fmt.Fprintln(w, " \t--\t-----\t--------------")
	for _, model := range models {
		marker := " "
		if model.ID == current {
			marker = "*"
		}
		contextLength := "-"
		if model.ContextLength > 0 {
			contextLength = fmt.Sprint(model.ContextLength)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, model.ID, model.OwnedBy, contextLength)
	}
	return nil
}
