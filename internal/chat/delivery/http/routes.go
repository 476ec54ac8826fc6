package http

import (
	"github.com/gin-gonic/gin"

	"nutrition-assistant/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// The chat route is public and rate limited per client.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/chat", mw.RateLimit(), h.Chat)
}
