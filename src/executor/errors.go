package executor

import "errors"

var (
	// Request validation errors
	ErrPromptTextRequired  = errors.New("prompt text is required")
	ErrModelClientRequired = errors.New("model client is required")
	ErrSessionRequired     = errors.New("session is required")
)
