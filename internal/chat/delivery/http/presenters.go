package http

import (
	"encoding/json"

	"nutrition-assistant/internal/chat"
)

// --- Request DTOs ---

// chatReq keeps messages raw so a non-array value is reported as a client error.
type chatReq struct {
	Messages      json.RawMessage `json:"messages" swaggertype:"array,object"`
	HealthProfile json.RawMessage `json:"healthProfile,omitempty" swaggertype:"object"`
}

type messageReq struct {
	Role          string          `json:"role"`
	Content       string          `json:"content"`
	HealthProfile json.RawMessage `json:"healthProfile,omitempty"`
}

func (r chatReq) toInput(msgs []messageReq) chat.RelayInput {
	conv := make(chat.Conversation, len(msgs))
	for i, m := range msgs {
		conv[i] = chat.Message{
			Role:          m.Role,
			Content:       m.Content,
			HealthProfile: chat.HealthProfile(m.HealthProfile),
		}
	}
	return chat.RelayInput{
		Messages:      conv,
		HealthProfile: chat.HealthProfile(r.HealthProfile),
	}
}

// --- Response headers ---

const (
	headerCache = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"

	contentTypeText = "text/plain; charset=utf-8"
)

func cacheStatus(out chat.RelayOutput) string {
	if out.CacheHit {
		return cacheHit
	}
	return cacheMiss
}
