// Package server serves the live viewer: one viewer.Session behind a small
// JSON API, with layout frames streamed to the browser as server-sent events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/store"
	"github.com/sparqlviz/sparqlviz/internal/viewer"
)

// Defaults for Options.
const (
	DefaultCacheSize     = 16
	DefaultDescribeLimit = 100
	DefaultDataset       = "default"
	shutdownTimeout      = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Title is shown in the viewer page.
	Title string
	// Store answers describe queries and receives every loaded dataset.
	// Nil means describe falls back to the loaded dataset.
	Store *store.DB
	// Dataset is the store dataset name used for imports and describes.
	Dataset string
	// Prefixes abbreviate describe results. They should match the
	// session's prefixes so clicked IDs line up.
	Prefixes rdf.PrefixMap
	// DescribeLimit caps triples returned for one click.
	DescribeLimit int
	// CacheSize is the number of parsed files kept in memory.
	CacheSize int
	// Logger receives request and reload logs.
	Logger *zap.Logger
}

// Server exposes a viewer session over HTTP.
type Server struct {
	session *viewer.Session
	opts    Options
	logger  *zap.Logger
	cache   *lru.Cache[string, *rdf.Dataset]

	mu      sync.RWMutex
	dataset *rdf.Dataset
	source  string
}

// New creates a server for session.
func New(session *viewer.Session, opts Options) (*Server, error) {
	if opts.Title == "" {
		opts.Title = "SPARQL Graph"
	}
	if opts.Dataset == "" {
		opts.Dataset = DefaultDataset
	}
	if opts.DescribeLimit <= 0 {
		opts.DescribeLimit = DefaultDescribeLimit
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, *rdf.Dataset](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &Server{
		session: session,
		opts:    opts,
		logger:  logger,
		cache:   cache,
	}, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	router.Get("/", s.handleIndex)
	router.Get("/health", s.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/frame", s.handleFrame)
		r.Get("/events", s.handleEvents)
		r.Get("/export.svg", s.handleExportSVG)
		r.Get("/cytoscape", s.handleCytoscape)

		r.Post("/resize", s.handleResize)
		r.Post("/drag/{phase}", s.handleDrag)
		r.Post("/click", s.handleClick)
		r.Post("/zoom", s.handleZoom)
		r.Post("/pan", s.handlePan)
	})

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving viewer", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Event streams end when the session closes; Shutdown waits for them.
	s.session.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
