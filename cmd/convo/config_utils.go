package main

import (
	"fmt"

	"github.com/elee1766/convo/src/config"
)

// loadConfig loads configuration from the standard locations and applies
// the global flags on top.
func loadConfig(cli *CLI) (*config.Manager, error) {
	manager, err := config.NewManager(cli.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := manager.GetConfig()
	overrideConfigFromCLI(cfg, cli)

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return manager, nil
}

// overrideConfigFromCLI overrides configuration values with CLI flags
func overrideConfigFromCLI(cfg *config.Config, cli *CLI) {
	if cli.APIKey != "" {
		cfg.API.APIKey = cli.APIKey
	}
	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}
	if cli.Model != "" {
		cfg.Chat.Model = cli.Model
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.NoStream {
		stream := false
		cfg.Chat.Stream = &stream
	}
	if cli.Plain {
		cfg.UI.Plain = true
	}
}
