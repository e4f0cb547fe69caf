// Package orclient adapts OpenAI-compatible chat APIs (OpenAI, OpenRouter,
// local gateways) to the aisdk interfaces.
package orclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/elee1766/convo/src/aisdk"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	defaultTimeout  = 60 * time.Second
	defaultCacheTTL = time.Hour
)

var _ aisdk.Provider = (*Client)(nil)

// Client is a provider client for an OpenAI-compatible API.
type Client struct {
	config     Config
	api        *openai.Client
	logger     *slog.Logger
	modelCache *ModelCache
}

// NewClient creates a new provider client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = defaultCacheTTL
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "provider_client", "base_url", config.BaseURL)

	apiConfig := openai.DefaultConfig(config.APIKey)
	apiConfig.BaseURL = config.BaseURL
	// Streaming replies may legitimately outlive the request timeout; those
	// are bounded by the caller's context instead.
	apiConfig.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base:     http.DefaultTransport,
			siteURL:  config.SiteURL,
			siteName: config.SiteName,
		},
	}

	client := &Client{
		config: config,
		api:    openai.NewClientWithConfig(apiConfig),
		logger: logger,
	}
	client.modelCache = NewModelCache(client, config.CacheTTL)

	return client
}

// GetModels implements aisdk.Provider.
func (c *Client) GetModels(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	return c.modelCache.GetModelList(ctx)
}

// listModelsUncached returns all available models without caching
func (c *Client) listModelsUncached(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	c.logger.Debug("listing models")
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, wrapError("list_models", err)
	}

	models := make([]*aisdk.ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, &aisdk.ModelInfo{
			ID:      m.ID,
			Name:    m.ID,
			OwnedBy: m.OwnedBy,
			Created: m.CreatedAt,
		})
	}

	c.logger.Debug("listed models", "count", len(models))
	return models, nil
}

// headerTransport adds the optional ranking headers understood by OpenRouter.
type headerTransport struct {
	base     http.RoundTripper
	siteURL  string
	siteName string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL == "" && t.siteName == "" {
		return t.base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.siteName != "" {
		req.Header.Set("X-Title", t.siteName)
	}
	return t.base.RoundTrip(req)
}
