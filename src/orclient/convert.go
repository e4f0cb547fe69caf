package orclient

import (
	"github.com/elee1766/convo/src/aisdk"
	openai "github.com/sashabaranov/go-openai"
)

func toOpenAIRequest(model string, req *aisdk.ChatCompletionRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
		Stop:     req.Stop,
		User:     req.User,
	}

	for _, msg := range req.Messages {
		if msg == nil {
			continue
		}
		out.Messages = append(out.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
			Name:    msg.Name,
		})
	}

	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		out.TopP = float32(*req.TopP)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	return out
}

func fromOpenAIResponse(resp openai.ChatCompletionResponse) *aisdk.ChatCompletionResponse {
	out := &aisdk.ChatCompletionResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]aisdk.Choice, 0, len(resp.Choices)),
		Usage: aisdk.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, c := range resp.Choices {
		out.Choices = append(out.Choices, aisdk.Choice{
			Index: c.Index,
			Message: aisdk.Message{
				Role:    c.Message.Role,
				Content: c.Message.Content,
			},
			FinishReason: string(c.FinishReason),
		})
	}

	return out
}

func fromOpenAIStreamResponse(resp openai.ChatCompletionStreamResponse) *aisdk.StreamChunk {
	out := &aisdk.StreamChunk{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]aisdk.Choice, 0, len(resp.Choices)),
	}

	for _, c := range resp.Choices {
		out.Choices = append(out.Choices, aisdk.Choice{
			Index: c.Index,
			Delta: &aisdk.Message{
				Role:    c.Delta.Role,
				Content: c.Delta.Content,
			},
			FinishReason: string(c.FinishReason),
		})
	}

	if resp.Usage != nil {
		out.Usage = &aisdk.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out
}
