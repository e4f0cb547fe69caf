package orclient

import (
	"log/slog"
	"time"
)

// Config holds configuration for an OpenAI-compatible provider client
type Config struct {
	APIKey   string        // API key sent as a bearer token
	BaseURL  string        // Base URL of the API, e.g. https://openrouter.ai/api/v1
	Logger   *slog.Logger  // Logger for debugging
	Timeout  time.Duration // HTTP timeout for non-streaming calls
	CacheTTL time.Duration // How long model listings are cached
	SiteURL  string        // Site URL for ranking
	SiteName string        // Site name for ranking
}
