// Package server exposes a loaded dependency graph over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness and graph size
//	GET  /v1/graph              the graph as JSON
//	PUT  /v1/graph              replace the graph with dependency text
//	GET  /v1/order/{class}      recompilation order (?rule=shared|path)
//
// The server holds one graph at a time. Replacing it builds a new graph and
// swaps the pointer, so in-flight queries finish on the graph they started
// with.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/recompile/pkg/depgraph"
	"github.com/matzehuels/recompile/pkg/pipeline"
)

// DefaultMaxBodySize bounds PUT /v1/graph request bodies.
const DefaultMaxBodySize = 8 << 20

// Options configures a Server.
type Options struct {
	Addr        string
	ReadTimeout time.Duration
	MaxBodySize int64
	Logger      *log.Logger
}

// Server serves queries against the current graph.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64

	mu     sync.RWMutex
	graph  *depgraph.Graph
	source string

	httpServer *http.Server
}

// New creates a server answering queries against g with runner.
func New(runner *pipeline.Runner, g *depgraph.Graph, source string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	s := &Server{
		runner:  runner,
		logger:  opts.Logger,
		maxBody: opts.MaxBodySize,
		graph:   g,
		source:  source,
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/graph", s.handleGetGraph)
		r.Put("/graph", s.handlePutGraph)
		r.Get("/order/{class}", s.handleOrder)
	})
	return r
}

// Graph returns the current graph and the source it was loaded from.
func (s *Server) Graph() (*depgraph.Graph, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.source
}

// SetGraph replaces the current graph. The previous graph is not modified.
func (s *Server) SetGraph(g *depgraph.Graph, source string) {
	s.mu.Lock()
	s.graph, s.source = g, source
	s.mu.Unlock()
	s.logger.Info("graph replaced",
		"source", source,
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount())
}

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
