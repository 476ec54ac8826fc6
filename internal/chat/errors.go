package chat

import "errors"

// Domain-specific errors for the chat package.
var (
	// ErrInvalidMessages is a client input error: messages missing, not a list, or empty.
	ErrInvalidMessages = errors.New("invalid messages format")

	// ErrUpstream means the language model call failed or returned nothing usable.
	ErrUpstream = errors.New("upstream generation failed")
)
