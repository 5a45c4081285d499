package executor

import (
	"fmt"
	"time"
)

// Kind classifies an execution failure.
type Kind string

const (
	// KindTimeout means the subprocess exceeded the configured timeout
	// and was killed.
	KindTimeout Kind = "timeout"
	// KindProcess means the subprocess ran and exited non-zero.
	KindProcess Kind = "process_error"
	// KindSpawn means the subprocess could not be started at all, e.g.
	// the tool is not installed or not executable.
	KindSpawn Kind = "spawn_error"
)

// Error is a classified execution failure.
type Error struct {
	Kind    Kind
	Message string
	Timeout time.Duration // configured timeout; set for KindTimeout
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func timeoutError(timeout time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("request timed out after %s", timeout),
		Timeout: timeout,
	}
}
