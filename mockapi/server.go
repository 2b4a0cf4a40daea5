// Package mockapi serves a local stand-in for the workspace projects
// backend. Its routes and payloads match what api.ProjectsClient expects, so
// switching to a real backend only changes the base URL.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drake/portal/api"
)

// Server is the mock projects endpoint.
type Server struct {
	logger   *slog.Logger
	projects []api.WorkItem
	dests    []string

	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// New creates a server over the built-in fixture.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mock_requests_total",
		Help: "Requests served by the mock projects endpoint.",
	}, []string{"route", "code"})
	reg.MustRegister(requests)

	return &Server{
		logger:   logger,
		projects: Projects,
		dests:    Destinations,
		registry: reg,
		requests: requests,
	}
}

// Registry exposes the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the HTTP handler. Routes:
//
//	GET /api/projects
//	GET /api/projects/{id}
//	GET /api/projects/{id}/destinations
//	GET /metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/projects", s.instrument("projects", s.handleList))
	mux.Handle("GET /api/projects/{id}", s.instrument("project", s.handleProject))
	mux.Handle("GET /api/projects/{id}/destinations", s.instrument("destinations", s.handleDestinations))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock projects endpoint listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// handleList returns every project. userID is accepted but not used for
// filtering.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if uid := r.URL.Query().Get("userID"); uid != "" {
		s.logger.Debug("projects requested", "user_id", uid)
	}
	writeJSON(w, http.StatusOK, s.projects)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.find(r.PathValue("id"))
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.find(r.PathValue("id")); !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"destinations": s.dests})
}

func (s *Server) find(id string) (api.WorkItem, bool) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return api.WorkItem{}, false
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)

		s.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.logger.Info("mock request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.code,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
