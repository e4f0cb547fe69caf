package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Loader handles loading and merging configurations from multiple sources
type Loader struct {
	precedence ConfigPrecedence
	validator  *Validator
	fs         afero.Fs
	getenv     func(string) string
}

// NewLoader creates a new configuration loader reading the OS filesystem
// and environment.
func NewLoader(precedence ConfigPrecedence) *Loader {
	return NewLoaderWithFs(precedence, afero.NewOsFs(), os.Getenv)
}

// NewLoaderWithFs creates a loader over fsys with getenv as the environment.
func NewLoaderWithFs(precedence ConfigPrecedence, fsys afero.Fs, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		precedence: precedence,
		validator:  NewValidator(),
		fs:         fsys,
		getenv:     getenv,
	}
}

// Load loads configuration from all sources and merges them. It also
// returns the path of the highest precedence file that was read.
func (l *Loader) Load() (*Config, string, error) {
	config := baseConfig()
	loadedFrom := ""

	sources := []struct {
		path   string
		source ConfigSource
	}{
		{l.precedence.SystemConfig, SourceSystem},
		{l.precedence.UserConfig, SourceUser},
		{l.precedence.ProjectConfig, SourceProject},
		{l.precedence.LocalConfig, SourceLocal},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}

		cfg, err := l.loadFile(src.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to load %s config from %s: %w", src.source, src.path, err)
		}
		config = l.mergeConfigs(config, cfg)
		loadedFrom = src.path
	}

	if l.precedence.EnvironmentPrefix != "" {
		l.applyEnvironmentOverrides(config)
	}
	config.applyProviderDefaults()

	if config.API.APIKey == "" && config.API.APIKeyEnvVar != "" {
		config.API.APIKey = l.getenv(config.API.APIKeyEnvVar)
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, loadedFrom, nil
}

// loadFile loads a single configuration file
func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &config, nil
}

// SaveFile saves configuration to a file
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold an API key
	if err := afero.WriteFile(l.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// mergeConfigs merges two configurations with the second taking precedence
func (l *Loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	// Merge API config
	if override.API.Provider != "" && override.API.Provider != result.API.Provider {
		result.API.Provider = override.API.Provider
		// endpoint and key variable belong to the previous provider
		result.API.BaseURL = ""
		result.API.APIKeyEnvVar = ""
	}
	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.APIKey != "" {
		result.API.APIKey = override.API.APIKey
	}
	if override.API.APIKeyEnvVar != "" {
		result.API.APIKeyEnvVar = override.API.APIKeyEnvVar
	}
	if override.API.Timeout != 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.API.SiteURL != "" {
		result.API.SiteURL = override.API.SiteURL
	}
	if override.API.SiteName != "" {
		result.API.SiteName = override.API.SiteName
	}

	result.Chat = l.mergeChatConfig(result.Chat, override.Chat)

	// Merge Storage
	if override.Storage.DatabasePath != "" {
		result.Storage.DatabasePath = override.Storage.DatabasePath
	}
	if override.Storage.Enabled != nil {
		result.Storage.Enabled = override.Storage.Enabled
	}

	// Merge Logging
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}
	if override.Logging.Directory != "" {
		result.Logging.Directory = override.Logging.Directory
	}

	// Merge UI
	if override.UI.Theme != "" {
		result.UI.Theme = override.UI.Theme
	}
	if override.UI.Width != 0 {
		result.UI.Width = override.UI.Width
	}
	if override.UI.Plain {
		result.UI.Plain = true
	}

	// Merge Files
	if override.Files.MaxBytes != 0 {
		result.Files.MaxBytes = override.Files.MaxBytes
	}
	if override.Files.PromptsDir != "" {
		result.Files.PromptsDir = override.Files.PromptsDir
	}

	return &result
}

// mergeChatConfig merges chat configurations
func (l *Loader) mergeChatConfig(base, override ChatConfig) ChatConfig {
	result := base

	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature != 0 {
		result.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		result.MaxTokens = override.MaxTokens
	}
	if override.Stream != nil {
		result.Stream = override.Stream
	}
	if override.SystemPrompt != "" {
		result.SystemPrompt = override.SystemPrompt
	}
	if override.Greeting != "" {
		result.Greeting = override.Greeting
	}
	if override.FallbackMessage != "" {
		result.FallbackMessage = override.FallbackMessage
	}
	if override.AbortFormat != "" {
		result.AbortFormat = override.AbortFormat
	}
	if override.ContextTokens != 0 {
		result.ContextTokens = override.ContextTokens
	}

	return result
}

// applyEnvironmentOverrides applies environment variable overrides to config
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	prefix := l.precedence.EnvironmentPrefix

	// Check for provider override
	if provider := l.getenv(prefix + "_PROVIDER"); provider != "" && provider != config.API.Provider {
		config.API.Provider = provider
		config.API.BaseURL = ""
		config.API.APIKeyEnvVar = ""
	}

	// Check for API key override
	if apiKey := l.getenv(prefix + "_API_KEY"); apiKey != "" {
		config.API.APIKey = apiKey
	}

	// Check for model override
	if model := l.getenv(prefix + "_MODEL"); model != "" {
		config.Chat.Model = model
	}

	// Check for base URL override
	if baseURL := l.getenv(prefix + "_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}

	// Check for log level override
	if level := l.getenv(prefix + "_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
