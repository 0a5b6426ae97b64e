// Package api serves board planning over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness probe
//	POST /v1/plans              plan a board, respond with the plan as JSON
//	POST /v1/plans/preview.svg  plan a board, respond with the layout preview
//	GET  /metrics               Prometheus metrics
//
// Both plan routes take the same JSON body, for example
//
//	{"width_mm": 600, "height_mm": 400, "max_tile_cells": 7, "prefix": "garage_"}
//
// Invalid requests are answered with 400 and boards that cannot be tiled with
// 422. Error bodies carry the error code: {"code": "GEOMETRY", "error": "..."}.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/config"
	mberrors "github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/observability"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// PlanRequest is the body of the plan routes.
type PlanRequest struct {
	board.Request
	Fit    string `json:"fit,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	// Config supplies defaults for fields a request leaves out.
	Config config.Config
	Logger *log.Logger
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Post("/v1/plans", s.createPlan)
	r.Post("/v1/plans/preview.svg", s.previewSVG)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// requestID reuses the caller's X-Request-ID or assigns a new one, and puts a
// logger tagged with it in the request context.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		logger := s.logger().With("request_id", id)
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context(), logger)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, duration)
		log.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Runner.Plan(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) previewSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Runner.Plan(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.Formats = []string{pipeline.FormatSVG}
	result, err := s.Runner.Render(r.Context(), p, opts)
	if err == nil {
		err = result.Err()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[0].Data)
}

// decode reads a PlanRequest and turns it into pipeline options, with config
// defaults filling what the request leaves out.
func (s *Server) decode(r *http.Request) (pipeline.Options, error) {
	var req PlanRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return pipeline.Options{}, mberrors.Wrap(mberrors.ErrCodeUsage, err, "invalid request body")
	}

	opts := pipeline.Options{
		Board:  req.Request,
		Fit:    s.Config.Fit,
		Prefix: req.Prefix,
		Logger: log.FromContext(r.Context()),
	}
	s.Config.ApplyBoard(&opts.Board)

	if req.Fit != "" {
		fit, err := tiling.ParseFitRule(req.Fit)
		if err != nil {
			return pipeline.Options{}, mberrors.Wrap(mberrors.ErrCodeUsage, err, "invalid fit")
		}
		opts.Fit = fit
	}
	if err := mberrors.ValidatePrefix(opts.Prefix); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch mberrors.GetCode(err) {
	case mberrors.ErrCodeUsage, mberrors.ErrCodeInvalidFormat, mberrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case mberrors.ErrCodeGeometry:
		return http.StatusUnprocessableEntity
	case mberrors.ErrCodeExternalTool:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := string(mberrors.GetCode(err))
	if code == "" {
		code = string(mberrors.ErrCodeInternal)
	}

	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "code", code, "error", err)
	}

	msg := mberrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
