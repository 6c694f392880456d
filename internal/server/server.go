// Package server exposes the infographic pipeline over HTTP.
//
// Routes:
//   - POST /api/generate  — run the pipeline for a JSON request
//   - GET  /api/platforms — list supported platforms
//   - GET  /healthz       — liveness probe
//
// Error responses carry the pipeline's error category so clients can
// distinguish bad requests from transient upstream failures.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/pipeline"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
)

// requestTimeout bounds a single generation request end to end.
const requestTimeout = 5 * time.Minute

// Server wraps an http.Server around the pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// New builds a server listening on addr.
func New(runner *pipeline.Runner, logger *log.Logger, addr string) *Server {
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/platforms", s.handlePlatforms)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, platform.All())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeRunError maps pipeline failures to HTTP status codes: validation
// errors are the client's fault, transient errors are retryable upstream
// conditions, everything else is a server fault.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	stage := ""
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}

	switch apperrors.CategoryOf(err) {
	case apperrors.Validation:
		writeError(w, http.StatusBadRequest, err.Error(), stage)
	case apperrors.Transient:
		if ra := apperrors.RetryAfterOf(err); ra > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(ra.Seconds())))
		}
		writeError(w, http.StatusServiceUnavailable, err.Error(), stage)
	default:
		s.logger.Error("generation failed", "stage", stage, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", stage)
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, stage string) {
	writeJSON(w, status, errorBody{Error: msg, Stage: stage})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
