package orclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:   "test-key",
		BaseURL:  server.URL + "/v1",
		Timeout:  5 * time.Second,
		SiteName: "convo-test",
	})
}

func modelsHandler(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"object":"list","data":[{"id":"gpt-4o-mini","object":"model","owned_by":"openai","created":1}]}`)
}

func TestClientModels(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "convo-test", r.Header.Get("X-Title"))
		require.Equal(t, "/v1/models", r.URL.Path)
		modelsHandler(w)
	})

	models, err := client.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "gpt-4o-mini", models[0].ID)
	assert.Equal(t, "openai", models[0].OwnedBy)

	_, err = client.Model(context.Background(), "unknown-model")
	assert.ErrorIs(t, err, ErrInvalidModel)

	mc, err := client.Model(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", mc.GetModelInfo().ID)
}

func TestClientModelWithoutListing(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mc, err := client.Model(context.Background(), "local-model")
	require.NoError(t, err)
	assert.Equal(t, "local-model", mc.GetModelInfo().ID)
}

func TestCreateChatCompletion(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			modelsHandler(w)
			return
		}
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int  `json:"max_tokens"`
			Stream    bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		assert.Equal(t, 300, body.MaxTokens)
		assert.False(t, body.Stream)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Sloane Stephens."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":4,"total_tokens":14}}`)
	})

	mc, err := client.Model(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)

	maxTokens := 300
	resp, err := mc.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{
		Messages: []*aisdk.Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "Who won the Women's U.S. Open in 2018?"},
		},
		MaxTokens: &maxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sloane Stephens.", resp.Content())
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 14, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			modelsHandler(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	})

	mc, err := client.Model(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)

	_, err = mc.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{
		Messages: []*aisdk.Message{{Role: "user", Content: "hi"}},
	})

	var perr *aisdk.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Equal(t, "invalid_api_key", perr.Code)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, "Incorrect API key provided", aisdk.AbortReason(err))
}

func TestCreateChatCompletionStream(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			modelsHandler(w)
			return
		}

		var body struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, fragment := range []string{"Sloane ", "Stephens", "."} {
			fmt.Fprintf(w, "data: {\"id\":\"s1\",\"object\":\"chat.completion.chunk\",\"model\":\"gpt-4o-mini\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", fragment)
		}
		fmt.Fprint(w, "data: {\"id\":\"s1\",\"object\":\"chat.completion.chunk\",\"model\":\"gpt-4o-mini\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	mc, err := client.Model(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)

	stream, err := mc.CreateChatCompletionStream(context.Background(), &aisdk.ChatCompletionRequest{
		Messages: []*aisdk.Message{{Role: "user", Content: "Who won?"}},
	})
	require.NoError(t, err)

	var fragments []string
	agg := aisdk.NewStreamAggregator()
	for {
		chunk, err := stream.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		agg.AddChunk(chunk)
		fragments = append(fragments, chunk.Fragment())
	}
	require.NoError(t, stream.Close())

	assert.Equal(t, []string{"Sloane ", "Stephens", ".", ""}, fragments)
	assert.Equal(t, "stop", agg.FinishReason)
	assert.Equal(t, "s1", agg.ID)
}
