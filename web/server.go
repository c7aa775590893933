// Package web serves the interactive dashboard: charts of the simulated
// portfolio, live editing of holdings and weights, and a JSON API.
package web

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
	"github.com/skatz510/foliosim/quotedb"
)

//go:embed static
var static embed.FS

// Fetcher downloads market data for tickers added from the dashboard.
type Fetcher interface {
	Fetch(ticker string, rng date.Range, interval date.Interval) (*foliosim.Asset, error)
}

// Config carries the server dependencies.
type Config struct {
	Addr          string
	PortfolioPath string
	Portfolio     *foliosim.Portfolio
	Store         *quotedb.Store
	Fetcher       Fetcher
	Logger        *slog.Logger
}

// Server holds the in-memory working copy of the portfolio. Edits made from
// the dashboard stay in memory until a save is requested.
type Server struct {
	logger  *slog.Logger
	server  *http.Server
	mux     *http.ServeMux
	hub     *hub
	metrics *metrics

	path    string
	store   *quotedb.Store
	fetcher Fetcher

	mu        sync.RWMutex
	portfolio *foliosim.Portfolio
	sim       *foliosim.Simulation
}

// New constructs a server with routes and middleware wired. The portfolio's
// assets must already be in the store.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		logger:    cfg.Logger,
		mux:       http.NewServeMux(),
		metrics:   newMetrics(prometheus.NewRegistry()),
		path:      cfg.PortfolioPath,
		store:     cfg.Store,
		fetcher:   cfg.Fetcher,
		portfolio: cfg.Portfolio,
	}
	s.hub = newHub(cfg.Logger, s.metrics)

	if err := s.rebuild(context.Background()); err != nil {
		return nil, err
	}

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.mux.Handle("GET /", http.FileServerFS(static))
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	s.mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	s.mux.HandleFunc("POST /api/portfolio/holdings", s.handleAddHolding)
	s.mux.HandleFunc("DELETE /api/portfolio/holdings/{ticker}", s.handleRemoveHolding)
	s.mux.HandleFunc("PUT /api/portfolio/weights", s.handleSetWeights)
	s.mux.HandleFunc("GET /api/series", s.handleSeries)
	s.mux.HandleFunc("GET /api/exposure", s.handleExposure)
	s.mux.HandleFunc("POST /api/save", s.handleSave)
	s.mux.HandleFunc("GET /ws", s.handleWS)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.loggingMiddleware(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// rebuild reloads the assets from the store and recomputes the simulation.
// Callers mutating the portfolio must hold the write lock.
func (s *Server) rebuild(ctx context.Context) error {
	assets, err := s.store.LoadAssets(ctx, s.portfolio.Tickers())
	if err != nil {
		return fmt.Errorf("cannot load assets: %w", err)
	}
	sim, err := foliosim.NewSimulation(s.portfolio, assets)
	if err != nil {
		return err
	}
	s.sim = sim
	return nil
}

// Run starts the HTTP server and blocks until it exits or errors.
func (s *Server) Run() error {
	s.logger.Info("dashboard listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server within the provided context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down dashboard")
	s.hub.closeAll()
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("dashboard stopped")
	return nil
}

// Handler exposes the routed handler, for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.metrics.requests.WithLabelValues(r.Method, r.URL.Path).Inc()
		s.metrics.latency.Observe(time.Since(start).Seconds())
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	content, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}
