// Package app wires configuration, storage, the model provider and the turn
// runner into the operations exposed by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/article"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/executor"
	convofs "github.com/elee1766/convo/src/fs"
	"github.com/elee1766/convo/src/orclient"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/render"
	"github.com/elee1766/convo/src/storage"
	"github.com/elee1766/convo/src/theme"
	"github.com/elee1766/convo/src/tokens"
	"github.com/spf13/afero"
)

var (
	// ErrStorageDisabled is returned by history operations when persistence is off
	ErrStorageDisabled = errors.New("conversation storage is disabled")

	// ErrConversationNotFound is returned for unknown conversation IDs
	ErrConversationNotFound = errors.New("conversation not found")
)

// App represents the main application with all services
type App struct {
	Provider aisdk.Provider
	Store    *storage.DB
	Config   *config.Config
	Logger   *slog.Logger
	Prompts  *prompts.Set
	Articles *article.Loader
	Renderer *render.Renderer
	Executor *executor.Service
	Counter  *tokens.Counter

	mu          sync.Mutex
	modelClient aisdk.ModelClient
}

// Options holds what New needs beyond the configuration
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Fs is the filesystem documents and prompt templates are read from.
	// It defaults to the OS filesystem.
	Fs         afero.Fs
	WorkingDir string

	// Provider replaces the configured OpenAI-compatible client
	Provider aisdk.Provider
}

// New creates a new App instance with all services initialized
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}

	provider := opts.Provider
	if provider == nil {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		provider = orclient.NewClient(orclient.Config{
			APIKey:   cfg.API.APIKey,
			BaseURL:  cfg.API.BaseURL,
			Timeout:  cfg.API.Timeout,
			SiteURL:  cfg.API.SiteURL,
			SiteName: cfg.API.SiteName,
			Logger:   logger,
		})
	}

	set := prompts.Default()
	if cfg.Files.PromptsDir != "" {
		loaded, err := prompts.LoadDir(fsys, cfg.Files.PromptsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt templates: %w", err)
		}
		set = loaded
	}

	counter, err := tokens.NewCounter()
	if err != nil {
		return nil, err
	}

	t := theme.ByName(cfg.UI.Theme)
	theme.SetTheme(t)
	renderer := render.New(t)
	renderer.Plain = cfg.UI.Plain

	a := &App{
		Provider: provider,
		Config:   cfg,
		Logger:   logger,
		Prompts:  set,
		Articles: article.NewLoader(convofs.NewContextualFs(fsys, workingDir), cfg.Files.MaxBytes),
		Renderer: renderer,
		Counter:  counter,
		Executor: executor.NewService(executor.ServiceConfig{
			SystemPrompt:  cfg.Chat.SystemPrompt,
			Counter:       counter,
			ContextTokens: cfg.Chat.ContextTokens,
			Logger:        logger,
		}),
	}

	if cfg.Storage.IsEnabled() {
		store, err := openStore(ctx, cfg.Storage.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.Store = store
	}

	return a, nil
}

func openStore(ctx context.Context, path string) (*storage.DB, error) {
	store, err := storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

// ModelClient returns the client for the configured model, creating it on
// first use.
func (a *App) ModelClient(ctx context.Context) (aisdk.ModelClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.modelClient != nil {
		return a.modelClient, nil
	}
	client, err := a.Provider.Model(ctx, a.Config.Chat.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to get model client: %w", err)
	}
	a.modelClient = client
	return client, nil
}

// Models lists the models offered by the provider.
func (a *App) Models(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	return a.Provider.GetModels(ctx)
}

// Close closes all resources held by the app
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
