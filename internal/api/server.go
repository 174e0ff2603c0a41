// Package api provides the HTTP surface of the reconciliation backend.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clearledger/reconciliation-backend/internal/api/handlers"
	"github.com/clearledger/reconciliation-backend/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new API server around the reconcile service.
func NewServer(cfg Config, svc *service.ReconcileService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		config: cfg,
		router: router,
		logger: logger,
	}
	s.setupRoutes(svc)
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(svc *service.ReconcileService) {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", handlers.Health)

	sessions := handlers.NewSessionsHandler(svc)
	matching := handlers.NewMatchingHandler(svc)

	api := s.router.Group("/api")
	{
		api.POST("/sessions", sessions.Create)
		api.GET("/sessions", sessions.List)
		api.GET("/sessions/:id", sessions.Get)
		api.GET("/sessions/:id/summary", sessions.Summary)
		api.POST("/sessions/:id/complete", sessions.Complete)
		api.POST("/sessions/:id/abandon", sessions.Abandon)
		api.GET("/sessions/:id/reconcile-ids", sessions.TransactionsToReconcile)
		api.GET("/sessions/:id/audit", sessions.Audit)

		api.POST("/sessions/:id/match", matching.Run)
		api.POST("/sessions/:id/matches", matching.Apply)
		api.POST("/sessions/:id/matches/manual", matching.ManualMatch)
		api.DELETE("/sessions/:id/matches", matching.Unmatch)
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
