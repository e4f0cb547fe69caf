package orclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/elee1766/convo/src/aisdk"
	openai "github.com/sashabaranov/go-openai"
)

// ErrInvalidModel indicates an invalid model was specified
var ErrInvalidModel = errors.New("invalid model specified")

// wrapError converts an error from the OpenAI client into an
// *aisdk.ProviderError carrying the HTTP status and provider code.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	perr := &aisdk.ProviderError{Op: op, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		perr.StatusCode = apiErr.HTTPStatusCode
		perr.Message = apiErr.Message
		if apiErr.Code != nil {
			perr.Code = fmt.Sprint(apiErr.Code)
		}
	case errors.As(err, &reqErr):
		perr.StatusCode = reqErr.HTTPStatusCode
		if reqErr.Err != nil {
			perr.Message = reqErr.Err.Error()
		} else {
			perr.Message = http.StatusText(reqErr.HTTPStatusCode)
		}
	case errors.Is(err, context.DeadlineExceeded):
		perr.Message = "timeout"
	case errors.Is(err, context.Canceled):
		perr.Message = "cancelled"
	default:
		perr.Message = err.Error()
	}

	return perr
}

// IsRateLimit returns true if this is a rate limit error.
func IsRateLimit(err error) bool {
	var perr *aisdk.ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.StatusCode == http.StatusTooManyRequests || perr.Code == "rate_limit_exceeded"
}

// IsAuthError returns true if this is an authentication error.
func IsAuthError(err error) bool {
	var perr *aisdk.ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	switch perr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return perr.Code == "invalid_api_key"
}
