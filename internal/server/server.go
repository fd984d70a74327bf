package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier-chat/config"
	"courier-chat/internal/handler"
	"courier-chat/internal/middleware"
	"courier-chat/internal/redis"
	"courier-chat/internal/services"
	"courier-chat/internal/transport/httpdto"
	"courier-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	checks     []healthCheck
}

type healthCheck struct {
	name  string
	check func() error
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Thread  *handler.ThreadHandler
	Message *handler.MessageHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// AddHealthCheck registers a dependency probed by GET /health.
func (s *Server) AddHealthCheck(name string, check func() error) {
	s.checks = append(s.checks, healthCheck{name: name, check: check})
}

// SetupRoutes mounts every endpoint. limiter may be nil when Redis is disabled.
func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigins))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	if limiter != nil {
		s.engine.Use(middleware.RateLimitMiddleware(limiter))
	}

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		for _, hc := range s.checks {
			if err := hc.check(); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(hc.name+": "+err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	api := s.engine.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", handlers.Auth.Register)
		users.POST("/login", handlers.Auth.Login)
		users.POST("/refresh", handlers.Auth.Refresh)
	}

	chat := api.Group("/chat", middleware.AuthMiddleware(authService))
	{
		chat.POST("/threads", handlers.Thread.Create)
		chat.GET("/threads/:id", handlers.Thread.GetByID)
		chat.DELETE("/threads/:id", handlers.Thread.Delete)
		chat.POST("/threads/:id/messages", handlers.Message.Create)
		chat.GET("/threads/:id/messages", handlers.Message.List)
		chat.GET("/users/:user_id/threads", handlers.Thread.ListForUser)
		chat.POST("/messages/:id/read", handlers.Message.MarkRead)
		chat.GET("/unread", handlers.Message.UnreadCount)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
