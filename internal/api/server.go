// Package api exposes the HTTP interface: editorial commands, forced-topic
// article runs, run status, and the persisted article list.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assistant"
	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/metrics"
	"github.com/nichtagentur/blogforge/internal/middleware"
)

// AuthConfig toggles API-key checks on the /v1 routes.
type AuthConfig struct {
	Enabled bool
	APIKey  string
}

// Server wires HTTP handlers to the run manager and stores.
type Server struct {
	router    chi.Router
	manager   *Manager
	assistant *assistant.Assistant
	runs      *RunStore
	store     blog.Store
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes. assistant may be
// nil; the commands endpoint then reports the feature as unavailable.
func NewServer(manager *Manager, asst *assistant.Assistant, runs *RunStore, store blog.Store, auth AuthConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		manager:   manager,
		assistant: asst,
		runs:      runs,
		store:     store,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Metrics)
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if auth.Enabled {
			r.Use(apiKeyMiddleware(auth.APIKey))
		}
		r.Post("/commands", s.submitCommand)
		r.Post("/articles", s.submitArticle)
		r.Get("/articles", s.listArticles)
		r.Get("/runs/{run_id}", s.getRun)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ReadAll(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type commandRequest struct {
	Text string `json:"text"`
}

type commandResponse struct {
	Action   string               `json:"action"`
	Reply    string               `json:"reply,omitempty"`
	RunID    string               `json:"run_id,omitempty"`
	Articles []blog.ArticleRecord `json:"articles,omitempty"`
}

func (s *Server) submitCommand(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "missing command text")
		return
	}

	c, err := s.assistant.Classify(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := commandResponse{Action: c.Action, Reply: c.Reply}
	switch c.Action {
	case assistant.ActionNewPost:
		runID, err := s.manager.StartArticle(c.Topic)
		if err != nil {
			s.writeStartError(w, err)
			return
		}
		resp.RunID = runID
		s.writeJSON(w, http.StatusAccepted, resp)
	case assistant.ActionEditPost:
		runID, err := s.manager.StartEdit(c.Slug, c.EditInstructions)
		if err != nil {
			s.writeStartError(w, err)
			return
		}
		resp.RunID = runID
		s.writeJSON(w, http.StatusAccepted, resp)
	case assistant.ActionInfo:
		records, err := s.store.ReadAll(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to read articles")
			return
		}
		resp.Articles = records
		s.writeJSON(w, http.StatusOK, resp)
	default:
		s.writeJSON(w, http.StatusOK, resp)
	}
}

type articleRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) submitArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	runID, err := s.manager.StartArticle(strings.TrimSpace(req.Topic))
	if err != nil {
		s.writeStartError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	run, err := s.runs.Get(runID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ReadAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read articles")
		return
	}
	if records == nil {
		records = []blog.ArticleRecord{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"articles": records})
}

func (s *Server) writeStartError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBusy) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprint(w, `{"error":"internal server error"}`)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
