// Package server exposes discovered model graphs over a JSON API. It serves
// pure data for an external renderer to consume; producing HTML or layout is
// deliberately not its job.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/pbitools/semgraph/internal/loader"
	"github.com/pbitools/semgraph/internal/registry"
)

// Server serves the model registry over HTTP and optionally keeps it fresh
// by watching the search root for TMDL changes.
type Server struct {
	registry   *registry.Registry
	searchPath string
	port       int
	watch      bool
	logger     *slog.Logger
}

// Config holds server construction parameters.
type Config struct {
	Registry   *registry.Registry
	SearchPath string
	Port       int
	Watch      bool
	Logger     *slog.Logger
}

// New creates a server instance.
func New(cfg Config) *Server {
	return &Server{
		registry:   cfg.Registry,
		searchPath: cfg.SearchPath,
		port:       cfg.Port,
		watch:      cfg.Watch,
		logger:     cfg.Logger,
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "watch", s.watch)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchFiles re-discovers the search root whenever a relationships file
// changes, swapping the registry contents wholesale.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.searchPath); err != nil {
		s.logger.Error("failed to watch search path", "error", err)
		// Keep serving without watching.
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".tmdl" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("file changed, re-discovering", "file", event.Name)
				s.reload(ctx)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reload runs a fresh discovery pass and replaces the registry contents.
func (s *Server) reload(ctx context.Context) {
	result, err := loader.Load(ctx, s.searchPath, s.logger)
	if err != nil {
		s.logger.Error("re-discovery failed", "error", err)
		return
	}
	for _, w := range result.Warnings {
		s.logger.Warn("parse warning", "model", w.Model, "line", w.Line, "error", w.Err)
	}
	s.registry.ReplaceAll(result.Graphs)
	s.logger.Info("registry reloaded", "models", s.registry.Count())
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
