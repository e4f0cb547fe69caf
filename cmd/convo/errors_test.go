package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/session"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: ExitError},
		{name: "interrupted", err: fmt.Errorf("chat: %w", context.Canceled), want: ExitInterrupted},
		{name: "timeout", err: context.DeadlineExceeded, want: ExitTimeout},
		{name: "missing key", err: fmt.Errorf("%w: set OPENAI_API_KEY", config.ErrNoAPIKey), want: ExitAuth},
		{name: "invalid config", err: fmt.Errorf("configuration validation failed: %w", config.ValidationError{Field: "Config.Chat.Temperature"}), want: ExitConfig},
		{name: "storage disabled", err: app.ErrStorageDisabled, want: ExitConfig},
		{name: "empty prompt", err: fmt.Errorf("%w: user turn is empty", session.ErrInvalidInput), want: ExitUsage},
		{name: "unauthorized", err: &aisdk.ProviderError{Op: "chat_completion", StatusCode: 401}, want: ExitAuth},
		{name: "forbidden", err: fmt.Errorf("ask: %w", &aisdk.ProviderError{Op: "chat_completion", StatusCode: 403}), want: ExitAuth},
		{name: "rate limited", err: &aisdk.ProviderError{Op: "chat_stream", StatusCode: 429, Code: "rate_limit_exceeded"}, want: ExitRateLimit},
		{name: "server error", err: &aisdk.ProviderError{Op: "chat_completion", StatusCode: 500}, want: ExitError},
		{name: "transport failure", err: &aisdk.ProviderError{Op: "chat_completion", Message: "connection refused"}, want: ExitNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestHandleErrorMissingKey(t *testing.T) {
	var buf bytes.Buffer
	code := handleError(&buf, config.ErrNoAPIKey)

	assert.Equal(t, ExitAuth, code)
	assert.Contains(t, buf.String(), "Please add your API key to continue.")
}

func TestHandleErrorNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitSuccess, handleError(&buf, nil))
	assert.Empty(t, buf.String())
}
