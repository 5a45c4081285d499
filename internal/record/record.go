// Package record persists one execution record per inbound request for
// later inspection. Records hold outcomes and sizes, never prompt or
// response content, so no conversation state survives a request.
package record

import "time"

// Outcome is the terminal state of a request.
type Outcome string

const (
	// OK means the subprocess exited zero and a response was returned.
	OK Outcome = "ok"
	// Failed means the request ended in a classified error.
	Failed Outcome = "failed"
)

// Record describes one handled request.
type Record struct {
	ID            string    `json:"id"`
	Endpoint      string    `json:"endpoint"` // "/ask", "/chat", or a tool name
	Outcome       Outcome   `json:"outcome"`
	ErrorKind     string    `json:"error_kind,omitempty"` // timeout, process_error, spawn_error
	Message       string    `json:"message,omitempty"`    // error message; empty on success
	PromptChars   int       `json:"prompt_chars"`
	ResponseChars int       `json:"response_chars"`
	DurationMs    int64     `json:"duration_ms"`
	Time          time.Time `json:"time"`
}

// Store persists and retrieves records by request id.
type Store interface {
	Save(rec *Record) error
	Load(id string) (*Record, error)
}
