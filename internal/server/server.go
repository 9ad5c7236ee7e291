// Package server is a development backend for the todo collection.
// It serves /api/v1/todo from memory, optionally persisted to a JSON file.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/api"
)

// Config holds server settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server owns the router and the HTTP listener.
type Server struct {
	cfg    Config
	logger zerolog.Logger
	router *gin.Engine
}

// New builds a server over repo.
func New(cfg Config, repo *Repository, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		router: NewRouter(repo, logger),
	}
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// NewRouter returns a gin engine with the collection routes mounted.
func NewRouter(repo *Repository, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	h := &handlers{repo: repo, logger: logger}
	r.GET(api.CollectionPath, h.list)
	r.POST(api.CollectionPath, h.create)
	r.PUT(api.CollectionPath, h.update)
	r.DELETE(api.CollectionPath, h.remove)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not found")
	})
	return r
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("todo server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down todo server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs each request with zerolog, escalating by status class.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Debug()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
