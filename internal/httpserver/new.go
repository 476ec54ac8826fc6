package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	chatHTTP "nutrition-assistant/internal/chat/delivery/http"
	"nutrition-assistant/internal/chat/repository"
	"nutrition-assistant/internal/middleware"
	"nutrition-assistant/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Shared middleware (request id, CORS, rate limit)
	mw middleware.Middleware

	// Chat domain
	chatHandler chatHTTP.Handler
	cache       repository.Repository
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	Middleware middleware.Middleware

	// Chat domain
	ChatHandler chatHTTP.Handler
	Cache       repository.Repository // optional, checked by /ready
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		mw:          cfg.Middleware,
		chatHandler: cfg.ChatHandler,
		cache:       cfg.Cache,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatHandler == nil {
		return errors.New("chat handler is required")
	}
	return nil
}
