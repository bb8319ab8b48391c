// Package server exposes the orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/hamzaahmed987/truthfinder/truthfinder/config"
	"github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator"
	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// chatRequestSchema validates the chat payload before any field is
// trusted. Extra properties are tolerated so older clients keep working.
const chatRequestSchema = `{
	"type": "object",
	"required": ["message"],
	"properties": {
		"user_id":    {"type": "string", "maxLength": 128},
		"message":    {"type": "string", "maxLength": 65536},
		"session_id": {"type": "string", "maxLength": 128}
	}
}`

const maxRequestBody = 1 << 20 // 1 MiB

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the outbound chat payload.
type ChatResponse struct {
	Response  string       `json:"response"`
	SessionID string       `json:"session_id"`
	History   []ports.Turn `json:"history"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP boundary around the orchestrator.
type Server struct {
	orch           *orchestrator.Orchestrator
	store          ports.ConversationStore
	cfg            config.ServerConfig
	schema         *gojsonschema.Schema
	logger         zerolog.Logger
	historyLimit   int
	requestTimeout time.Duration
}

// New creates the HTTP server around an orchestrator.
func New(orch *orchestrator.Orchestrator, store ports.ConversationStore, cfg config.ServerConfig, historyLimit int, logger zerolog.Logger) (*Server, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chatRequestSchema))
	if err != nil {
		return nil, err
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Server{
		orch:           orch,
		store:          store,
		cfg:            cfg,
		schema:         schema,
		logger:         logger.With().Str("component", "server").Logger(),
		historyLimit:   historyLimit,
		requestTimeout: timeout,
	}, nil
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/agent/chat", s.handleChat)
	mux.HandleFunc("GET /api/v1/debug/history/{user_id}", s.handleDebugHistory)

	return s.corsMiddleware(s.loggingMiddleware(s.recoveryMiddleware(mux)))
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.requestTimeout + 5*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("shutdown error")
		}
	}()

	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("server starting")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "truthfinder",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable request body"})
		return
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	if !result.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: result.Errors()[0].String()})
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	// An anonymous caller is keyed by session so the conversation still
	// accumulates history for its duration.
	userID := req.UserID
	if userID == "" {
		userID = req.SessionID
	}

	message := orchestrator.Sanitize(req.Message)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	reply, err := s.orch.HandleMessage(ctx, userID, message)
	switch {
	case errors.Is(err, orchestrator.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		// ErrInternal or anything unforeseen; the cause is already
		// logged below this layer.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: orchestrator.ErrInternal.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  reply.Response,
		SessionID: req.SessionID,
		History:   reply.History,
	})
}

// handleDebugHistory dumps a user's stored turns. Debug aid, not part
// of the stable API.
func (s *Server) handleDebugHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id required"})
		return
	}

	turns := s.store.History(r.Context(), userID, s.historyLimit)
	if turns == nil {
		turns = []ports.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"count":   len(turns),
		"history": turns,
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic recovered")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: orchestrator.ErrInternal.Error()})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origin := "*"
	if len(s.cfg.AllowedOrigins) > 0 {
		origin = s.cfg.AllowedOrigins[0]
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
