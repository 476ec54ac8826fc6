package chat

import "context"

// UseCase defines the business logic interface for the chat domain.
type UseCase interface {
	// Relay answers the conversation, serving a cached reply for a repeated
	// final message and calling the language model otherwise.
	Relay(ctx context.Context, input RelayInput) (RelayOutput, error)
}
