// Package executor spawns the assistant CLI as a subprocess, one per
// request, with a timeout and an output size limit.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Executor runs the assistant CLI with a prompt argument and captures
// its output. The zero value is not usable; all fields must be set.
type Executor struct {
	Command   string        // executable name, resolved via PATH
	Args      []string      // argv between the command and the prompt
	Timeout   time.Duration // per-invocation deadline
	MaxOutput int           // bytes, per stream
}

// Run invokes the command with the prompt appended to argv and returns
// the trimmed stdout. The subprocess is killed if it exceeds the timeout;
// on every failure path the child has exited before Run returns.
//
// Failures are returned as *Error with a Kind of KindTimeout, KindProcess,
// or KindSpawn.
func (e *Executor) Run(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	argv := make([]string, 0, len(e.Args)+1)
	argv = append(argv, e.Args...)
	argv = append(argv, prompt)

	cmd := exec.CommandContext(ctx, e.Command, argv...)
	// After the kill, don't wait on surviving grandchildren that still
	// hold the output pipes.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: e.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: e.MaxOutput}

	runErr := cmd.Run()

	// CommandContext kills the child on deadline; by the time Run returns
	// the process has been waited on, so nothing is leaked.
	if ctx.Err() == context.DeadlineExceeded {
		return "", timeoutError(e.Timeout)
	}

	// ErrWaitDelay means the command exited zero but a grandchild kept
	// the pipes open past the grace period; the output we have is good.
	if runErr == nil || errors.Is(runErr, exec.ErrWaitDelay) {
		return strings.TrimSpace(stdout.String()), nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "command exited with a non-zero status"
		}
		return "", &Error{Kind: KindProcess, Message: msg}
	}

	// The command never started: missing binary, permission denied.
	return "", &Error{Kind: KindSpawn, Message: runErr.Error()}
}

// limitWriter writes up to limit bytes to buf, then silently discards the
// rest while reporting full writes to avoid short write errors.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
