package http

import (
	"github.com/gin-gonic/gin"

	"nutrition-assistant/internal/chat"
	"nutrition-assistant/pkg/log"
)

// Handler is the public interface for the chat HTTP delivery layer.
type Handler interface {
	Chat(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc chat.UseCase
}

// New creates a new HTTP handler for the chat domain.
func New(l log.Logger, uc chat.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
