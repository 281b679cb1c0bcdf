// Package server serves a directory of static files, including the generated
// RSS feed, for local consumption by a feed reader.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long a graceful stop may take.
const shutdownTimeout = 5 * time.Second

// Options configures the file server.
type Options struct {
	Port     int
	Dir      string // directory to serve
	FeedFile string // expected feed file name, checked with a warning only
}

// Server is the static file server.
type Server struct {
	opts   Options
	dir    string // resolved absolute path of Options.Dir
	log    *zap.SugaredLogger
	router chi.Router
	ln     net.Listener
}

// New resolves and validates the served directory and builds the router.
// A missing feed file is only warned about; the directory itself must exist.
func New(opts Options, log *zap.SugaredLogger) (*Server, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", opts.Dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	if opts.FeedFile != "" {
		feedPath := filepath.Join(dir, opts.FeedFile)
		if _, err := os.Stat(feedPath); err != nil {
			log.Warnf("RSS feed file %s does not exist yet", feedPath)
			log.Warn("Generate it first with: notion-rss")
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return &Server{opts: opts, dir: dir, log: log, router: r}, nil
}

// Start binds the TCP listener on all interfaces. A port that is already in
// use is reported with a retry suggestion.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (try --port %d): %w",
				s.opts.Port, s.opts.Port+1, err)
		}
		return fmt.Errorf("failed to bind port %d: %w", s.opts.Port, err)
	}
	s.ln = ln

	port := ln.Addr().(*net.TCPAddr).Port
	s.log.Infof("Server started at http://localhost:%d/", port)
	if s.opts.FeedFile != "" {
		s.log.Infof("RSS Feed URL: http://localhost:%d/%s", port, s.opts.FeedFile)
	}
	return nil
}

// Addr returns the bound listener address. Valid only after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
// A cancelled context is a clean stop and returns nil.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(s.ln)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Server stopped")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down cleanly: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger logs each request at debug level.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
