// Package preview serves a generated site directory over local HTTP so a
// build can be checked before it is pushed to hosting. It mirrors the
// hosting behavior that matters: directory index.html resolution and
// site-root-relative asset paths.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// shutdownTimeout bounds how long in-flight requests may run once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// Server serves one generated site tree.
type Server struct {
	addr   string
	dir    string
	logger *slog.Logger
	router *chi.Mux
}

// NewServer validates the site directory and prepares the router.
func NewServer(addr, dir string, logger *slog.Logger) (*Server, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppError(types.ErrCodeConfigFileNotFound,
				fmt.Sprintf("site directory not found: %s", dir), err)
		}
		return nil, types.NewAppError(types.ErrCodeConfigFileNotFound,
			fmt.Sprintf("failed to read site directory %s", dir), err)
	}
	if !info.IsDir() {
		return nil, types.NewAppError(types.ErrCodeConfigFileNotFound,
			fmt.Sprintf("%s is not a directory", dir), nil)
	}

	s := &Server{
		addr:   addr,
		dir:    dir,
		logger: logger,
		router: chi.NewRouter(),
	}

	s.router.Use(s.recoverer)
	s.router.Use(requestLogger(logger))
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/*", http.FileServer(http.Dir(dir)))

	return s, nil
}

// Handler returns the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled or the listener fails, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.addr, "dir", s.dir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("initiating graceful shutdown")
	case err := <-serverErr:
		if err != nil {
			return types.NewAppError(types.ErrCodeInternalUnexpected,
				fmt.Sprintf("preview server failed on %s", s.addr), err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"preview server shutdown failed", err)
	}

	s.logger.Info("preview server stopped cleanly")
	return nil
}

// handleHealth reports liveness. The preview server has no dependencies to
// probe, so reaching the handler is the health check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// recoverer catches panics in the handler chain, logs the panic value, and
// returns a plain 500 so one bad request cannot kill the preview.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprintf("%v", rvr)),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
