package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	ConfigFile string `name:"config" short:"c" type:"path" help:"Config file (overrides the user config)"`
	LogLevel   string `help:"Log level (debug, info, warn, error)"`
	Model      string `short:"m" help:"Model to use"`
	APIKey     string `help:"API key for the provider"`
	BaseURL    string `help:"Custom API base URL"`
	NoStream   bool   `help:"Wait for the whole reply instead of streaming it"`
	Plain      bool   `help:"Disable colors and highlighting"`

	// Chat is the default command
	Chat      ChatCmd      `cmd:"" default:"1" help:"Start an interactive chat (default)"`
	Ask       AskCmd       `cmd:"" help:"Send a single prompt"`
	FileQA    FileQACmd    `cmd:"" name:"fileqa" help:"Ask a question about a document or web page"`
	Outline   OutlineCmd   `cmd:"" help:"Generate a blog post outline"`
	Summarize SummarizeCmd `cmd:"" help:"Summarize a document or web page"`
	History   HistoryCmd   `cmd:"" help:"Browse stored conversations"`
	Models    ModelCmd     `cmd:"" name:"model" help:"Model information"`
	Config    ConfigCmd    `cmd:"" help:"Show configuration"`
	Migrate   MigrateCmd   `cmd:"" help:"Database migrations"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("convo"),
		kong.Description("Chat with hosted language models from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&cli)
	stop()
	if err != nil {
		os.Exit(handleError(os.Stderr, err))
	}
}
