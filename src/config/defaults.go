package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoAPIKey is returned when no API key is configured for a provider that needs one.
var ErrNoAPIKey = errors.New("no API key configured")

// Provider settings used when the config does not override them.
type providerDefaults struct {
	BaseURL      string
	APIKeyEnvVar string
	Model        string
	NeedsKey     bool
}

var providers = map[string]providerDefaults{
	"openai": {
		BaseURL:      "https://api.openai.com/v1",
		APIKeyEnvVar: "OPENAI_API_KEY",
		Model:        "gpt-4o-mini",
		NeedsKey:     true,
	},
	"openrouter": {
		BaseURL:      "https://openrouter.ai/api/v1",
		APIKeyEnvVar: "OPENROUTER_API_KEY",
		Model:        "google/gemini-2.5-flash",
		NeedsKey:     true,
	},
	"local": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.2",
	},
}

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	config := baseConfig()
	config.applyProviderDefaults()
	return config
}

// baseConfig holds the defaults that do not depend on the provider.
func baseConfig() *Config {
	paths := GetDefaultStoragePaths()

	return &Config{
		Version: "1.0",
		API: APIConfig{
			Provider: "openai",
			Timeout:  60 * time.Second,
			SiteName: "convo",
		},
		Chat: ChatConfig{
			Temperature: 0.7,
		},
		Storage: StorageConfig{
			DatabasePath: paths.DatabasePath,
		},
		Logging: LoggingConfig{
			Level:     "warn",
			Format:    "text",
			Directory: paths.LogPath,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Files: FilesConfig{
			MaxBytes:   5 * 1024 * 1024,
			PromptsDir: paths.PromptsPath,
		},
	}
}

// GenerateDefaultConfig generates a default config for a specific provider
func GenerateDefaultConfig(provider string) (*Config, error) {
	p, ok := providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	config := baseConfig()
	config.API.Provider = provider
	config.API.BaseURL = p.BaseURL
	config.API.APIKeyEnvVar = p.APIKeyEnvVar
	config.Chat.Model = p.Model
	return config, nil
}

// applyProviderDefaults fills endpoint, key variable and model from the
// provider when they are unset.
func (c *Config) applyProviderDefaults() {
	p, ok := providers[c.API.Provider]
	if !ok {
		return
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = p.BaseURL
	}
	if c.API.APIKeyEnvVar == "" {
		c.API.APIKeyEnvVar = p.APIKeyEnvVar
	}
	if c.Chat.Model == "" {
		c.Chat.Model = p.Model
	}
}

// NeedsAPIKey reports whether the configured provider requires an API key.
func (c *Config) NeedsAPIKey() bool {
	p, ok := providers[c.API.Provider]
	return !ok || p.NeedsKey
}

// RequireAPIKey returns ErrNoAPIKey when the provider needs a key and none is set.
func (c *Config) RequireAPIKey() error {
	if c.API.APIKey == "" && c.NeedsAPIKey() {
		if c.API.APIKeyEnvVar != "" {
			return fmt.Errorf("%w: set %s or api.api_key", ErrNoAPIKey, c.API.APIKeyEnvVar)
		}
		return ErrNoAPIKey
	}
	return nil
}
