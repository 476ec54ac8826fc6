package httpserver

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "nutrition-assistant/docs" // Swagger docs
	chatHTTP "nutrition-assistant/internal/chat/delivery/http"
	"nutrition-assistant/pkg/response"
)

const environmentProduction = "production"

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.CustomRecovery(srv.handlePanic))
	srv.gin.Use(srv.mw.RequestID())
	srv.gin.Use(srv.mw.CORS())

	ctx := context.Background()
	if srv.environment == environmentProduction {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) handlePanic(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	srv.l.Errorf(c.Request.Context(), "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	response.InternalError(c, err)
	c.Abort()
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes under /api.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()
	api := srv.gin.Group("/api")

	chatHTTP.RegisterRoutes(api, srv.chatHandler, srv.mw)
	srv.l.Infof(ctx, "Chat route registered at POST /api/chat")

	return nil
}
