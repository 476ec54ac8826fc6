package httpserver

import (
	"github.com/gin-gonic/gin"

	"nutrition-assistant/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Nutrition assistant is up"
	HealthVersion = "1.0.0"
	ServiceName   = "nutrition-assistant"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, srv.status("healthy"))
}

// readyCheck reports ready once the reply cache answers.
// @Summary Readiness Check
// @Description Check if the API and its reply cache are ready to serve traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} response.Resp "Cache unreachable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	body := srv.status("ready")

	if srv.cache != nil {
		n, err := srv.cache.Len(c.Request.Context())
		if err != nil {
			srv.l.Warnf(c.Request.Context(), "readyCheck: cache.Len: %v", err)
			response.ServiceUnavailable(c, err)
			return
		}
		body["cache_entries"] = n
	}

	response.OK(c, body)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, srv.status("alive"))
}

func (srv HTTPServer) status(s string) gin.H {
	return gin.H{
		"status":      s,
		"message":     HealthMessage,
		"version":     HealthVersion,
		"service":     ServiceName,
		"environment": srv.environment,
	}
}
