package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/veldt-io/tabular/pkg/observability"
	"github.com/veldt-io/tabular/pkg/transport"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Logger:          slog.Default(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithTimeouts sets the read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) { s.config.ReadTimeout = read; s.config.WriteTimeout = write }
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.config.Logger = l }
}

// Server wraps an http.Server with the standard middleware stack
// (recovery, request ID, logging, metrics) and graceful shutdown.
type Server struct {
	httpServer *http.Server
	config     ServerConfig
}

// NewServer creates a server for the given handler.
func NewServer(handler http.Handler, opts ...ServerOption) *Server {
	s := &Server{config: DefaultServerConfig()}
	for _, opt := range opts {
		opt(s)
	}

	wrapped := transport.Recovery(
		transport.RequestID(
			transport.Logging(s.config.Logger)(
				observability.MetricsMiddleware(handler))))

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      wrapped,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("server listening", "addr", s.config.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.config.Logger.Info("shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}
