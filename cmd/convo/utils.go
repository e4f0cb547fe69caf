package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/executor"
)

// appEnv holds what a command needs once configuration is loaded
type appEnv struct {
	app     *app.App
	config  *config.Config
	logger  *slog.Logger
	closers []io.Closer
}

// setupApp loads configuration, applies adjust, and creates the app.
// Interactive commands log to a file so output stays readable.
func setupApp(ctx context.Context, cli *CLI, interactive bool, adjust ...func(*config.Config)) (*appEnv, error) {
	manager, err := loadConfig(cli)
	if err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()
	for _, fn := range adjust {
		fn(cfg)
	}

	rt := &appEnv{config: cfg}
	if interactive {
		logger, closer := createChatLogger(cfg.Logging)
		rt.logger = logger
		rt.closers = append(rt.closers, closer)
	} else {
		rt.logger = createCLILogger(cfg.Logging)
	}
	if path := manager.GetConfigPath(); path != "" {
		rt.logger.Debug("loaded configuration", "path", path)
	}

	a, err := app.New(ctx, app.Options{
		Config: cfg,
		Logger: rt.logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.app = a
	return rt, nil
}

// consoleSink prints turn events to out.
func (rt *appEnv) consoleSink(out io.Writer, raw, showUsage bool) *executor.ChannelEventSink {
	processor := executor.NewConsoleEventProcessor(executor.ConsoleProcessorConfig{
		Out:        out,
		Renderer:   rt.app.Renderer,
		Width:      rt.config.UI.Width,
		ShowUsage:  showUsage,
		RawMode:    raw,
		StreamMode: rt.config.Chat.StreamEnabled(),
	})
	return executor.NewChannelEventSink(100, processor)
}

// Close releases the app and log files.
func (rt *appEnv) Close() error {
	var first error
	if rt.app != nil {
		first = rt.app.Close()
	}
	for _, c := range rt.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
