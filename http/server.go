// Package http serves the risk dashboard, its JSON API and the prediction socket.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"healthrisk/ml"
	"healthrisk/monitoring"
)

// Server HTTP server
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig server settings
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// DefaultServerConfig default server settings
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

// NewServer creates the HTTP server around an already trained pipeline.
func NewServer(config ServerConfig, pipeline *ml.Pipeline, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultServerConfig().MaxBodyBytes
	}

	api := NewAPI(pipeline, metrics, logger, config.AllowedOrigins)
	mux := http.NewServeMux()

	RegisterHandlers(mux, api)
	RegisterAPIHandlers(mux, api)
	RegisterDashboardRoutes(mux, api)
	mux.Handle("GET /metrics", metrics.Handler())

	chain := Chain(
		RecoveryMiddleware(logger),
		LoggerMiddleware(logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		RequestSizeMiddleware(config.MaxBodyBytes),
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      chain(mux),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
		logger: logger,
	}
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.String("socket", "ws://localhost"+s.server.Addr+"/api/ws/predict"))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting up to five seconds for open requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}
