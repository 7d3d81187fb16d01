// Package server exposes context assembly over HTTP: build a bundle for a
// chapter, format a bundle into prompt text, plus health and metrics
// endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fabula/internal/contextbuilder"
	"fabula/internal/logging"
)

// Config configures the HTTP server.
type Config struct {
	Host         string
	Port         int
	EnableCORS   bool
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the standard server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server wires the context builder behind a gin engine.
type Server struct {
	builder    *contextbuilder.Builder
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
}

// New creates the server and registers all routes.
func New(builder *contextbuilder.Builder, cfg Config) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		builder: builder,
		engine:  engine,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logging.NewComponentLogger("server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.POST("/context/build", s.handleBuild)
	api.POST("/context/format", s.handleFormat)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
