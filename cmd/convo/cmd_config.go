package main

import (
	"context"
	"fmt"
	"os"

	"github.com/elee1766/convo/src/config"
)

// ConfigCmd shows configuration
type ConfigCmd struct {
	Show   ConfigShowCmd   `cmd:"" default:"1" help:"Print the effective configuration"`
	Schema ConfigSchemaCmd `cmd:"" help:"Print the configuration JSON schema"`
	Init   ConfigInitCmd   `cmd:"" help:"Write a default configuration file"`
}

// ConfigShowCmd prints the merged configuration
type ConfigShowCmd struct {
	Secrets bool `help:"Include the API key unmasked"`
}

// Run executes the config show command
func (c *ConfigShowCmd) Run(ctx context.Context, cli *CLI) error {
	manager, err := loadConfig(cli)
	if err != nil {
		return err
	}

	data, err := manager.ExportConfig(c.Secrets)
	if err != nil {
		return err
	}

	if path := manager.GetConfigPath(); path != "" {
		fmt.Fprintf(os.Stderr, "# loaded from %s\n", path)
	}
	fmt.Println(string(data))
	return nil
}

// ConfigSchemaCmd prints the JSON schema
type ConfigSchemaCmd struct{}

// Run executes the config schema command
func (c *ConfigSchemaCmd) Run(ctx context.Context, cli *CLI) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// ConfigInitCmd writes a default configuration for a provider
type ConfigInitCmd struct {
	Provider string `arg:"" optional:"" default:"openai" help:"Provider (openai, openrouter, local)"`
	Path     string `type:"path" help:"Destination (defaults to the user config)"`
	Force    bool   `help:"Overwrite an existing file"`
}

// Run executes the config init command
func (c *ConfigInitCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := config.GenerateDefaultConfig(c.Provider)
	if err != nil {
		return err
	}

	path := c.Path
	if path == "" {
		path = config.GetConfigPaths().UserConfig
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.NewLoader(config.GetConfigPaths()).SaveFile(cfg, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
