package http

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"nutrition-assistant/internal/chat"
)

// processChatReq binds the body and decodes the messages array.
func (h *handler) processChatReq(c *gin.Context) (chat.RelayInput, error) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return chat.RelayInput{}, chat.ErrInvalidMessages
	}

	raw := bytes.TrimSpace(req.Messages)
	if len(raw) == 0 || raw[0] != '[' {
		return chat.RelayInput{}, chat.ErrInvalidMessages
	}

	var msgs []messageReq
	if err := json.Unmarshal(raw, &msgs); err != nil || len(msgs) == 0 {
		return chat.RelayInput{}, chat.ErrInvalidMessages
	}

	return req.toInput(msgs), nil
}
