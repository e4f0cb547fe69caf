// Package aisdk defines the boundary between conversations and the hosted
// models that answer them.
package aisdk

import (
	"log/slog"
	"time"
)

// Message represents a single message sent to or received from a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// Name optionally identifies the author of the message
	Name string `json:"name,omitempty"`
}

// ChatCompletionRequest represents a request to the chat completions endpoint.
type ChatCompletionRequest struct {
	Model       string     `json:"model"`
	Messages    []*Message `json:"messages"`
	Temperature *float64   `json:"temperature,omitempty"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
	TopP        *float64   `json:"top_p,omitempty"`
	Stream      bool       `json:"stream,omitempty"`
	Stop        []string   `json:"stop,omitempty"`
	User        string     `json:"user,omitempty"`
}

// ChatCompletionResponse represents a response from the chat completions endpoint.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Content returns the text of the first choice, or "" when there is none.
func (r *ChatCompletionResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int      `json:"index"`
	Message      Message  `json:"message"`
	FinishReason string   `json:"finish_reason"`
	Delta        *Message `json:"delta,omitempty"` // For streaming
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk represents a single chunk in a streaming response.
type StreamChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Fragment returns the content delta carried by the chunk.
func (c *StreamChunk) Fragment() string {
	if c == nil || len(c.Choices) == 0 || c.Choices[0].Delta == nil {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// StreamInterface defines the interface for reading streaming responses.
// A stream is finite and cannot be restarted.
type StreamInterface interface {
	// Read reads the next chunk from the stream. It returns io.EOF after
	// the last chunk.
	Read() (*StreamChunk, error)

	// Close closes the stream.
	Close() error
}

// ModelInfo describes a model offered by a provider.
type ModelInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	OwnedBy       string `json:"owned_by,omitempty"`
	Created       int64  `json:"created,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
}

// ClientConfig holds the configuration for AI clients.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Optional headers for ranking/identification
	SiteURL  string
	SiteName string
	// Optional logger
	Logger *slog.Logger
}
