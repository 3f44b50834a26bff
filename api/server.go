// Package api provides the HTTP REST API server for dividup.
//
// It exposes the dividend analysis pipeline as JSON endpoints plus SVG
// chart rendering for the dashboard frontend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phuslu/log"

	"github.com/dividup/dividup/internal/config"
	"github.com/dividup/dividup/internal/pipeline"
	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/internal/report"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	registry *provider.Registry
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, pipe *pipeline.Pipeline, registry *provider.Registry) *Server {
	if registry == nil {
		registry = provider.Global()
	}
	srv := &Server{
		cfg:      cfg,
		pipe:     pipe,
		registry: registry,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("API server listening")

	<-done
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/analysis/{ticker}", s.handleAnalysis)
		r.Get("/charts/{ticker}/{chart}", s.handleChart)
		r.Get("/charts", s.handleChartList)
		r.Get("/providers", s.handleProviders)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// parseRequest builds a pipeline request from query parameters. Unset
// parameters stay zero so the pipeline fills its configured defaults.
func parseRequest(r *http.Request) (pipeline.Request, error) {
	req := pipeline.Request{Ticker: chi.URLParam(r, "ticker")}

	q := r.URL.Query()
	if v := q.Get("years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return req, errBadParam("years", v)
		}
		req.Years = years
	}
	if v := q.Get("interval"); v != "" {
		req.Interval = v
	}
	if v := q.Get("desired_yield"); v != "" {
		yield, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errBadParam("desired_yield", v)
		}
		req.DesiredYieldPct = yield
	}
	return req, nil
}

func errBadParam(name, value string) error {
	return &paramError{name: name, value: value}
}

type paramError struct {
	name, value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.pipe.Run(r.Context(), req)
	if err != nil {
		writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: analysis})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.pipe.Run(r.Context(), req)
	if err != nil {
		writeRunError(w, err)
		return
	}

	svg, err := report.RenderChart(analysis, chi.URLParam(r, "chart"), report.ChartConfig{})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg)) //nolint:errcheck
}

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report.ChartNames()})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.registry.List()})
}

// writeRunError maps pipeline failures onto HTTP status codes: rejected
// requests are the caller's fault, missing price data means the ticker has
// nothing to analyze, anything else is on us.
func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case pipeline.IsFatal(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
