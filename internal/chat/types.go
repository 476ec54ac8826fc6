package chat

import (
	"encoding/json"

	"nutrition-assistant/pkg/stream"
)

// Roles used in a Conversation. Other values are forwarded untouched.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HealthProfile is an opaque, caller supplied attribute bag. It is forwarded
// into the prompt verbatim and never interpreted.
type HealthProfile = json.RawMessage

// Message is one turn of a Conversation.
type Message struct {
	Role          string
	Content       string
	HealthProfile HealthProfile
}

// Conversation is the ordered message history of one request.
type Conversation []Message

// Last returns the final message. ok is false for an empty conversation.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// --- UseCase Inputs ---

type RelayInput struct {
	Messages      Conversation
	HealthProfile HealthProfile
}

// --- UseCase Outputs ---

type RelayOutput struct {
	Stream   *stream.Stream
	CacheHit bool
}
