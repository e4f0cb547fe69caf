package aisdk

import (
	"context"
	"errors"
	"fmt"
)

// ProviderError reports an upstream failure: transport, authentication,
// quota or a malformed reply. It is never produced by the conversation core.
type ProviderError struct {
	// Op is the provider operation that failed, e.g. "chat_completion"
	Op string
	// Message is a short user-facing description
	Message string
	// StatusCode is the HTTP status when one was received
	StatusCode int
	// Code is the provider error code when one was returned
	Code string
	Err  error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Code != "":
		return fmt.Sprintf("%s: provider error %d (%s): %s", e.Op, e.StatusCode, e.Code, e.Reason())
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: provider error %d: %s", e.Op, e.StatusCode, e.Reason())
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Reason())
	}
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Reason returns the text shown to the user when a reply is aborted.
func (e *ProviderError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "provider error"
}

// AbortReason maps an error from a provider call to the reason recorded in
// the transcript.
func AbortReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Reason()
	}
	return err.Error()
}
