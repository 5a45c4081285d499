// Package httpapi exposes the executor over HTTP: /ask, /chat, /health,
// /version, and /requests/{id} for stored execution records.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/deixis/askd/internal/config"
	"github.com/deixis/askd/internal/record"
	"github.com/google/uuid"
)

// maxRequestBody caps request bodies so handlers cannot read unbounded input.
const maxRequestBody = 1 << 20 // 1 MB

// Runner executes a flattened prompt and returns the assistant's answer.
// *executor.Executor is the production implementation.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Server is the HTTP facade. All dependencies are injected; Server holds
// no mutable state of its own.
type Server struct {
	cfg    *config.Config
	runner Runner
	store  record.Store
	logger *slog.Logger
}

// NewServer creates a Server with the given configuration, runner, record
// store, and logger.
func NewServer(cfg *config.Config, runner Runner, store record.Store, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, runner: runner, store: store, logger: logger}
}

// Handler returns the fully-assembled HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("GET /requests/{id}", s.handleRequestRecord)

	var h http.Handler = mux
	h = s.requestIDMiddleware(h)
	if s.cfg.CORS {
		h = corsMiddleware(h)
	}
	return h
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	s.logger.Info("listening",
		"addr", s.cfg.Addr(),
		"timeout", s.cfg.Timeout().String(),
		"cors", s.cfg.CORS,
		"command", s.cfg.Command(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDMiddleware assigns a fresh 8-character id to every request,
// echoes it in the X-Request-ID header, and stores it in the context.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request", "request_id", id, "method", r.Method, "path", r.URL.Path)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestID returns the id assigned by requestIDMiddleware.
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// corsMiddleware allows any origin; only installed when CORS is enabled.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
