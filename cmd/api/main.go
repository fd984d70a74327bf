package main

import (
	"context"
	"log"

	"courier-chat/config"
	"courier-chat/internal/handler"
	"courier-chat/internal/proxy"
	"courier-chat/internal/redis"
	"courier-chat/internal/repository"
	"courier-chat/internal/server"
	"courier-chat/internal/services"
	"courier-chat/pkg/database"
	"courier-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	// Connect to Database
	database.Connect(cfg)
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	var cache services.ProfileCache
	var limiter *redis.RateLimiter
	if cfg.RedisEnabled {
		redis.Initialize(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redis.Close()

		client := redis.GetClient()
		if err := redis.Ping(context.Background(), client); err != nil {
			l.Warnf("redis unreachable at startup: %v", err)
		}
		cache = redis.NewCacheStore(client, redis.DefaultCacheConfig())
		limits := redis.DefaultRateLimitConfig()
		limits.AuthLimit = cfg.AuthRateLimit
		limiter = redis.NewRateLimiter(client, limits)
	}

	userRepo := repository.NewUserRepository(database.DB)
	threadRepo := repository.NewThreadRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	access := proxy.NewAccessControl(threadRepo)

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, cache, l)
	threadService := services.NewThreadService(database.DB, threadRepo, userService, access)
	messageService := services.NewMessageService(messageRepo, access)

	paging := handler.Pagination{DefaultSize: cfg.PageSize, MaxSize: cfg.MaxPageSize}
	handlers := &server.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Thread:  handler.NewThreadHandler(threadService, paging),
		Message: handler.NewMessageHandler(messageService, userService, paging),
	}

	srv := server.New(cfg, l)
	srv.AddHealthCheck("database", database.HealthCheck)
	if redis.IsInitialized() {
		srv.AddHealthCheck("redis", func() error {
			return redis.Ping(context.Background(), redis.GetClient())
		})
	}
	srv.SetupRoutes(handlers, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
