package session

import "errors"

var (
	// ErrInvalidInput indicates malformed caller input, such as an empty user turn
	ErrInvalidInput = errors.New("invalid input")

	// ErrConcurrentTurn indicates an assistant turn is already in flight
	ErrConcurrentTurn = errors.New("assistant turn already in flight")

	// ErrStaleHandle indicates the handle does not refer to the open accumulator
	ErrStaleHandle = errors.New("stale assistant turn handle")
)
