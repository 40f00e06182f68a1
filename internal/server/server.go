// Package server exposes taxonomies, mappings and the dashboard over a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/uhco-curriculum/lomap/internal/mapping"
	"github.com/uhco-curriculum/lomap/internal/registry"
	"github.com/uhco-curriculum/lomap/internal/server/notifier"
	"github.com/uhco-curriculum/lomap/internal/watch"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Config holds configuration for the API server.
type Config struct {
	Addr     string
	Registry *registry.TaxonomyRegistry
	Store    core.MappingStore
	// Source reloads the registry when Watch is set
	Source registry.Source
	// WatchPath is the workbook file watched for changes
	WatchPath string
	Watch     bool
	Logger    *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	addr      string
	registry  *registry.TaxonomyRegistry
	store     core.MappingStore
	service   *mapping.Service
	source    registry.Source
	watchPath string
	watch     bool
	logger    *slog.Logger
	notifier  *notifier.Notifier
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:      cfg.Addr,
		registry:  cfg.Registry,
		store:     cfg.Store,
		service:   mapping.NewService(cfg.Store, cfg.Registry, logger),
		source:    cfg.Source,
		watchPath: cfg.WatchPath,
		watch:     cfg.Watch,
		logger:    logger,
		notifier:  notifier.New(),
	}
}

// Notifier returns the server's reload notifier.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/reference", s.handleReference)
		r.Get("/events", s.handleEvents)

		r.Route("/taxonomies", func(r chi.Router) {
			r.Get("/", s.handleTaxonomies)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/paths", s.handlePaths)
				r.Get("/options", s.handleOptions)
				r.Get("/select", s.handleSelect)
			})
		})

		r.Get("/mappings", s.handleListMappings)
		r.Post("/mappings", s.handleSaveMapping)
		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}

// Reload re-reads taxonomy data from the source and notifies subscribers.
func (s *Server) Reload(ctx context.Context) error {
	if s.source == nil {
		return errors.New("no reload source configured")
	}
	if err := s.registry.Reload(ctx, s.source); err != nil {
		return err
	}
	s.notifier.Broadcast("taxonomies reloaded")
	return nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", slog.String("addr", s.addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.watchPath != "" {
		eg.Go(func() error {
			return watch.NewFile(s.watchPath, s.Reload, s.logger).Run(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request at Debug through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
