package config

import (
	"time"
)

// Config represents the complete configuration for convo
type Config struct {
	// Version of the configuration format
	Version string `json:"version" description:"Configuration format version"`

	// API configuration
	API APIConfig `json:"api"`

	// Chat configuration
	Chat ChatConfig `json:"chat"`

	// Storage configuration
	Storage StorageConfig `json:"storage"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// UI configuration for transcript printing
	UI UIConfig `json:"ui"`

	// Files configuration for file questions
	Files FilesConfig `json:"files"`
}

// APIConfig holds API-related configuration
type APIConfig struct {
	// Provider specifies the AI provider (e.g., "openai")
	Provider string `json:"provider" validate:"provider" enum:"openai,openrouter,local" description:"Model provider"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url" description:"OpenAI-compatible API endpoint"`

	// APIKey for authentication (can be omitted if using env vars)
	APIKey string `json:"api_key,omitempty" description:"API key; prefer api_key_env_var"`

	// APIKeyEnvVar specifies the environment variable to read the API key from
	APIKeyEnvVar string `json:"api_key_env_var,omitempty" description:"Environment variable holding the API key"`

	// Timeout for API requests
	Timeout time.Duration `json:"timeout,omitempty" validate:"min=0" description:"Request timeout in nanoseconds"`

	// SiteURL and SiteName are sent as ranking headers to OpenRouter
	SiteURL  string `json:"site_url,omitempty" validate:"omitempty,url"`
	SiteName string `json:"site_name,omitempty"`
}

// ChatConfig controls how turns are generated and recorded
type ChatConfig struct {
	Model       string  `json:"model" validate:"required" description:"Model identifier"`
	Temperature float64 `json:"temperature" validate:"min=0,max=2" minimum:"0" maximum:"2"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"min=0" description:"Reply token limit, 0 for provider default"`

	// Stream requests replies as streamed fragments
	Stream *bool `json:"stream,omitempty"`

	SystemPrompt string `json:"system_prompt,omitempty"`

	// Greeting overrides the mode's default greeting
	Greeting string `json:"greeting,omitempty"`

	// FallbackMessage replaces an empty reply
	FallbackMessage string `json:"fallback_message,omitempty"`

	// AbortFormat formats failed replies, with one %s for the reason
	AbortFormat string `json:"abort_format,omitempty" validate:"omitempty,abort_format"`

	// ContextTokens is the prompt token budget, 0 to send the whole transcript
	ContextTokens int `json:"context_tokens,omitempty" validate:"min=0"`
}

// StreamEnabled reports whether replies are streamed. Streaming is the default.
func (c ChatConfig) StreamEnabled() bool {
	return c.Stream == nil || *c.Stream
}

// StorageConfig controls conversation persistence
type StorageConfig struct {
	DatabasePath string `json:"database_path,omitempty" description:"SQLite database file"`
	Enabled      *bool  `json:"enabled,omitempty"`
}

// IsEnabled reports whether conversations are persisted. Persistence is the default.
func (s StorageConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" validate:"omitempty,log_level" enum:"debug,info,warn,error"`

	// Format is the output format (text, json)
	Format string `json:"format,omitempty" validate:"omitempty,log_format" enum:"text,json"`

	// Directory for chat session log files
	Directory string `json:"directory,omitempty"`
}

// UIConfig controls transcript printing
type UIConfig struct {
	Theme string `json:"theme,omitempty" validate:"omitempty,theme" enum:"dark,light"`
	Width int    `json:"width,omitempty" validate:"min=0" description:"Wrap width, 0 for no wrapping"`
	Plain bool   `json:"plain,omitempty" description:"Disable colors and highlighting"`
}

// FilesConfig controls document loading for file questions
type FilesConfig struct {
	MaxBytes int64 `json:"max_bytes,omitempty" validate:"min=0"`

	// PromptsDir holds user prompt templates (*.tmpl)
	PromptsDir string `json:"prompts_dir,omitempty"`
}

// ConfigPrecedence defines the order of configuration loading
type ConfigPrecedence struct {
	// SystemConfig path
	SystemConfig string

	// UserConfig path
	UserConfig string

	// ProjectConfig path
	ProjectConfig string

	// LocalConfig path
	LocalConfig string

	// EnvironmentPrefix for env var overrides
	EnvironmentPrefix string
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ConfigSource indicates where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"
	SourceUser        ConfigSource = "user"
	SourceProject     ConfigSource = "project"
	SourceLocal       ConfigSource = "local"
	SourceEnvironment ConfigSource = "environment"
	SourceCLI         ConfigSource = "cli"
)
