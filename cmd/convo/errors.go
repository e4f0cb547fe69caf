package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/app"
	"github.com/elee1766/convo/src/config"
	"github.com/elee1766/convo/src/orclient"
	"github.com/elee1766/convo/src/prompts"
	"github.com/elee1766/convo/src/session"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitUsage       = 2 // Usage error
	ExitConfig      = 3 // Configuration error
	ExitAuth        = 4 // Authentication error
	ExitRateLimit   = 5 // Rate limited by the provider
	ExitNetwork     = 6 // Network error
	ExitTimeout     = 7 // Timeout error
	ExitInterrupted = 8 // Interrupted by user
)

// handleError prints a user-friendly message for err and returns the exit code
func handleError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, config.ErrNoAPIKey) {
		fmt.Fprintln(w, "Please add your API key to continue.")
		fmt.Fprintf(w, "Error: %s\n", err)
		return ExitAuth
	}

	fmt.Fprintf(w, "Error: %s\n", err)
	return exitCode(err)
}

// exitCode determines the appropriate exit code for an error
func exitCode(err error) int {
	var (
		validationErr config.ValidationError
		providerErr   *aisdk.ProviderError
		netErr        net.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	case errors.Is(err, config.ErrNoAPIKey):
		return ExitAuth
	case errors.As(err, &validationErr), errors.Is(err, app.ErrStorageDisabled):
		return ExitConfig
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, prompts.ErrEmptyInput):
		return ExitUsage
	case orclient.IsAuthError(err):
		return ExitAuth
	case orclient.IsRateLimit(err):
		return ExitRateLimit
	case errors.As(err, &providerErr):
		if providerErr.StatusCode == 0 {
			return ExitNetwork
		}
		return ExitError
	case errors.As(err, &netErr):
		return ExitNetwork
	default:
		return ExitError
	}
}
