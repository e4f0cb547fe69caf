package orclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/elee1766/convo/src/aisdk"
	openai "github.com/sashabaranov/go-openai"
)

var _ aisdk.ModelClient = (*ModelClient)(nil)

// ModelClient represents a client bound to a specific model
type ModelClient struct {
	client *Client
	model  *aisdk.ModelInfo
	logger *slog.Logger
}

// Model creates a ModelClient bound to the specified model. Models the
// provider does not list are rejected; when the listing itself is
// unavailable the name is used as given.
func (c *Client) Model(ctx context.Context, modelName string) (aisdk.ModelClient, error) {
	if modelName == "" {
		return nil, ErrInvalidModel
	}

	modelInfo, err := c.modelCache.GetModel(ctx, modelName)
	switch {
	case errors.Is(err, ErrInvalidModel):
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, modelName)
	case err != nil:
		c.logger.Warn("model listing unavailable, using model as given", "model", modelName, "error", err)
		modelInfo = &aisdk.ModelInfo{ID: modelName, Name: modelName}
	}

	return &ModelClient{
		client: c,
		model:  modelInfo,
		logger: c.logger.With("model", modelInfo.ID),
	}, nil
}

// CreateChatCompletion creates a chat completion with the bound model
func (mc *ModelClient) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, mc.client.config.Timeout)
	defer cancel()

	apiReq := toOpenAIRequest(mc.model.ID, req)
	apiReq.Stream = false

	mc.logger.Debug("sending chat completion request", "messages", len(apiReq.Messages))
	resp, err := mc.client.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		mc.logger.Error("chat completion failed", "error", err)
		return nil, wrapError("chat_completion", err)
	}

	result := fromOpenAIResponse(resp)
	mc.logger.Info("chat completion successful", "usage_total", result.Usage.TotalTokens)
	return result, nil
}

// CreateChatCompletionStream creates a streaming chat completion with the bound model
func (mc *ModelClient) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	apiReq := toOpenAIRequest(mc.model.ID, req)
	apiReq.Stream = true

	mc.logger.Debug("opening chat completion stream", "messages", len(apiReq.Messages))
	stream, err := mc.client.api.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		mc.logger.Error("chat completion stream failed", "error", err)
		return nil, wrapError("chat_completion_stream", err)
	}

	return &chatStream{stream: stream}, nil
}

// GetModelInfo returns the model information
func (mc *ModelClient) GetModelInfo() *aisdk.ModelInfo {
	return mc.model
}

// chatStream adapts a go-openai stream to aisdk.StreamInterface.
type chatStream struct {
	stream *openai.ChatCompletionStream
}

func (s *chatStream) Read() (*aisdk.StreamChunk, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, wrapError("chat_completion_stream", err)
	}
	return fromOpenAIStreamResponse(resp), nil
}

func (s *chatStream) Close() error {
	s.stream.Close()
	return nil
}
