package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutrition-assistant/pkg/response"
)

// Chat godoc
// @Summary     Chat with the nutrition assistant
// @Description Relays the conversation to the language model and streams the reply word by word as plain text.
// @Description A repeated final message within the cache TTL is answered from cache (X-Cache: HIT).
// @Tags        Chat
// @Accept      json
// @Produce     plain
// @Param       body body     chatReq true "Conversation and optional health profile"
// @Success     200  {string} string  "Streamed reply"
// @Failure     400  {string} string  "Invalid messages format"
// @Failure     429  {object} response.Resp "Too Many Requests"
// @Failure     500  {string} string  "Internal Server Error"
// @Router      /api/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	input, err := h.processChatReq(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	output, err := h.uc.Relay(ctx, input)
	if err != nil {
		h.l.Errorf(ctx, "uc.Relay: %v", err)
		h.writeError(c, err)
		return
	}

	c.Header("Content-Type", contentTypeText)
	c.Header(headerCache, cacheStatus(output))
	c.Status(http.StatusOK)

	n, err := output.Stream.WriteTo(ctx, c.Writer, c.Writer.Flush)
	switch {
	case err == nil:
		h.l.Debugf(ctx, "chat: streamed %d bytes (cache %s)", n, cacheStatus(output))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.l.Debugf(ctx, "chat: client went away after %d bytes", n)
	default:
		h.l.Warnf(ctx, "chat: stream write failed after %d bytes: %v", n, err)
	}
}

func (h *handler) writeError(c *gin.Context, err error) {
	httpErr := h.mapError(err)
	response.Text(c, httpErr.Code, httpErr.Message)
}
