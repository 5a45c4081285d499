package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deixis/askd"
	"github.com/deixis/askd/internal/executor"
	"github.com/deixis/askd/internal/prompt"
	"github.com/deixis/askd/internal/record"
)

type askRequest struct {
	Prompt string `json:"prompt"`
}

type chatRequest struct {
	Messages []prompt.Message `json:"messages"`
	System   string           `json:"system"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, r, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeValidationError(w, r, "prompt is required")
		return
	}

	text, ok := s.execute(w, r, "/ask", req.Prompt)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": text,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, r, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		s.writeValidationError(w, r, "messages is required")
		return
	}

	text, ok := s.execute(w, r, "/chat", prompt.Flatten(req.Messages, req.System))
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": map[string]string{
			"role":    "assistant",
			"content": text,
		},
	})
}

// handleHealth reports liveness. It never touches the executor, so it
// succeeds even when the assistant CLI is not installed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"version":      askd.Version,
		"timeout":      int(s.cfg.Timeout().Seconds()),
		"cors_enabled": s.cfg.CORS,
	})
}

func (s *Server) handleRequestRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, "not_found", "no record for request "+r.PathValue("id"))
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// execute runs the prompt through the executor, persists an execution
// record, and writes the error response on failure. It reports whether
// the caller should proceed with a success response.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, endpoint, flattened string) (string, bool) {
	ctx := r.Context()
	id := requestID(ctx)

	s.logger.Info("running command",
		"request_id", id,
		"endpoint", endpoint,
		"prompt_chars", len(flattened),
	)

	start := time.Now()
	text, err := s.runner.Run(ctx, flattened)
	elapsed := time.Since(start)

	rec := &record.Record{
		ID:            id,
		Endpoint:      endpoint,
		Outcome:       record.OK,
		PromptChars:   len(flattened),
		ResponseChars: len(text),
		DurationMs:    elapsed.Milliseconds(),
		Time:          start.UTC(),
	}

	if err != nil {
		kind, msg := executor.KindProcess, err.Error()
		status := http.StatusInternalServerError

		var execErr *executor.Error
		if errors.As(err, &execErr) {
			kind, msg = execErr.Kind, execErr.Message
			if execErr.Kind == executor.KindTimeout {
				status = http.StatusGatewayTimeout
			}
		}

		rec.Outcome = record.Failed
		rec.ErrorKind = string(kind)
		rec.Message = msg
		s.saveRecord(rec)

		s.logger.Error("command failed",
			"request_id", id,
			"endpoint", endpoint,
			"error_kind", string(kind),
			"error", msg,
		)
		s.writeError(w, r, status, string(kind), msg)
		return "", false
	}

	s.saveRecord(rec)
	s.logger.Info("command succeeded",
		"request_id", id,
		"endpoint", endpoint,
		"response_chars", len(text),
		"duration_ms", elapsed.Milliseconds(),
	)
	return text, true
}

// saveRecord persists a record; failures are logged, never surfaced.
func (s *Server) saveRecord(rec *record.Record) {
	if err := s.store.Save(rec); err != nil {
		s.logger.Warn("saving record", "request_id", rec.ID, "error", err)
	}
}

func (s *Server) writeValidationError(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeError(w, r, http.StatusBadRequest, "validation_error", msg)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	s.writeJSON(w, status, errorResponse{
		Error:     kind,
		Message:   msg,
		RequestID: requestID(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", "error", err)
	}
}
