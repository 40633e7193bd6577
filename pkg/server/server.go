// Package server exposes the agent over HTTP: a synchronous chat endpoint,
// a server-sent-events stream of node progress, plus health, tool listing,
// and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/graph"
	"github.com/lumilabs/lumi/pkg/session"
	"github.com/lumilabs/lumi/pkg/storage"
	"github.com/lumilabs/lumi/pkg/tools"
)

// Server wires the workflow coordinator to HTTP.
type Server struct {
	cfg         *config.Config
	coordinator *graph.Coordinator
	sessions    *session.Store
	registry    *tools.Registry
	store       storage.Store
	metrics     http.Handler

	httpServer *http.Server
}

// Option configures optional server features.
type Option func(*Server)

// WithMetricsHandler mounts a metrics exposition handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func New(cfg *config.Config, coordinator *graph.Coordinator, sessions *session.Store, registry *tools.Registry, store storage.Store, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		coordinator: coordinator,
		sessions:    sessions,
		registry:    registry,
		store:       store,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.cors)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/chat/stream", s.handleChatStream)
		r.Get("/tools", s.handleTools)
		r.Get("/schema", s.handleSchema)
	})

	if s.metrics != nil {
		r.Handle(s.cfg.Metrics.Path, s.metrics)
	}

	if s.cfg.Server.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.Server.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

// Start blocks serving requests until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
