package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"nutrition-assistant/config"
	chatHTTP "nutrition-assistant/internal/chat/delivery/http"
	"nutrition-assistant/internal/chat/repository"
	"nutrition-assistant/internal/chat/repository/memory"
	redisRepo "nutrition-assistant/internal/chat/repository/redis"
	sqliteRepo "nutrition-assistant/internal/chat/repository/sqlite"
	"nutrition-assistant/internal/chat/usecase"
	"nutrition-assistant/internal/httpserver"
	"nutrition-assistant/internal/middleware"
	"nutrition-assistant/pkg/llmprovider"
	"nutrition-assistant/pkg/log"
	"nutrition-assistant/pkg/telemetry"
)

// @title       Nutrition Assistant API
// @description Streaming chat relay for the nutrition assistant with a one hour reply cache.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		FilePath:     cfg.Logger.FilePath,
		MaxSizeMB:    cfg.Logger.MaxSizeMB,
		MaxBackups:   cfg.Logger.MaxBackups,
		MaxAgeDays:   cfg.Logger.MaxAgeDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Nutrition Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Telemetry (optional)
	if cfg.Telemetry.Enabled {
		tel, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:     cfg.Telemetry.ServiceName,
			ServiceVersion:  httpserver.HealthVersion,
			Dir:             cfg.Telemetry.Dir,
			MetricsInterval: cfg.Telemetry.MetricsInterval,
		})
		if err != nil {
			logger.Error(ctx, "Failed to initialize telemetry: ", err)
			return
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Warnf(ctx, "Telemetry shutdown: %v", err)
			}
		}()
		logger.Infof(ctx, "Telemetry written to %s", cfg.Telemetry.Dir)
	}

	// 4. LLM providers
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	for _, p := range providers {
		logger.Infof(ctx, "LLM provider ready: %s (%s)", p.Name(), p.Model())
	}

	llm := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      cfg.LLM.RetryDelayDuration(),
		MaxTotalTimeout: cfg.LLM.MaxTotalTimeoutDuration(),
	}, logger)

	// 5. Reply cache
	cache, cleanup, err := newCache(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize reply cache: ", err)
		return
	}
	defer cleanup()
	logger.Infof(ctx, "Reply cache: %s (ttl %s)", cfg.Cache.Backend, cfg.Cache.TTL)

	// 6. Chat domain
	chatUC := usecase.New(logger, llm, cache, usecase.Config{
		SystemPrompt: cfg.Chat.SystemPrompt,
		Pacing:       cfg.Chat.Pacing,
		SingleFlight: cfg.Cache.SingleFlight,
	})
	chatHandler := chatHTTP.New(logger, chatUC)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware:  middleware.New(logger, cfg.RateLimit, cfg.CORS),
		ChatHandler: chatHandler,
		Cache:       cache,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// newCache builds the configured reply cache. The returned cleanup releases
// any connection it opened.
func newCache(ctx context.Context, cfg *config.Config) (repository.Repository, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo, err := redisRepo.New(ctx, client, cfg.Cache.TTL, time.Now)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return repo, func() { client.Close() }, nil

	case config.CacheBackendSQLite:
		db, err := sql.Open(sqliteRepo.DriverName, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		repo, err := sqliteRepo.New(ctx, db, cfg.Cache.TTL, time.Now)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	default:
		return memory.New(cfg.Cache.TTL, time.Now), func() {}, nil
	}
}
