// Package server exposes the study app as a local read-only JSON API, for
// editors and web front ends that cannot speak MCP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/BibleWing/internal/app"
)

type Server struct {
	study   *app.StudyApp
	origins map[string]struct{}
	version string
	logger  *slog.Logger
	server  *http.Server
}

// Config holds the listener settings.
type Config struct {
	Port    int
	Origins []string // allowed CORS origins; empty allows none
	Version string
}

func New(study *app.StudyApp, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		study:   study,
		origins: make(map[string]struct{}, len(cfg.Origins)),
		version: cfg.Version,
		logger:  logger,
	}
	for _, o := range cfg.Origins {
		s.origins[normalizeOrigin(o)] = struct{}{}
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
