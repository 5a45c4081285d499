package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubTool writes an executable shell script to a temp dir and returns
// its path.
func stubTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub-tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestExecutor(command string) *Executor {
	return &Executor{
		Command:   command,
		Args:      []string{"-p"},
		Timeout:   10 * time.Second,
		MaxOutput: 1 << 20,
	}
}

func TestRun_Success(t *testing.T) {
	// Echo the prompt argument back with surrounding whitespace.
	tool := stubTool(t, `echo "  $2  "`)
	e := newTestExecutor(tool)

	out, err := e.Run(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("output = %q, want %q (trimmed)", out, "hello world")
	}
}

func TestRun_PromptIsLastArg(t *testing.T) {
	tool := stubTool(t, `echo "$1|$2"`)
	e := newTestExecutor(tool)

	out, err := e.Run(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "-p|the prompt" {
		t.Errorf("output = %q, want %q", out, "-p|the prompt")
	}
}

func TestRun_Timeout(t *testing.T) {
	tool := stubTool(t, "sleep 10")
	e := newTestExecutor(tool)
	e.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := e.Run(context.Background(), "hi")
	elapsed := time.Since(start)

	var execErr *Error
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if execErr.Kind != KindTimeout {
		t.Errorf("Kind = %q, want %q", execErr.Kind, KindTimeout)
	}
	if execErr.Timeout != e.Timeout {
		t.Errorf("Timeout = %v, want %v", execErr.Timeout, e.Timeout)
	}
	// Run must not return before the child has been killed and reaped,
	// and must not wait anywhere near the stub's full sleep.
	if elapsed > 5*time.Second {
		t.Errorf("Run took %v, subprocess not killed on timeout", elapsed)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	tool := stubTool(t, `echo "boom" >&2; exit 1`)
	e := newTestExecutor(tool)

	_, err := e.Run(context.Background(), "hi")

	var execErr *Error
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if execErr.Kind != KindProcess {
		t.Errorf("Kind = %q, want %q", execErr.Kind, KindProcess)
	}
	if execErr.Message != "boom" {
		t.Errorf("Message = %q, want %q", execErr.Message, "boom")
	}
}

func TestRun_NonZeroExit_EmptyStderr(t *testing.T) {
	tool := stubTool(t, "exit 1")
	e := newTestExecutor(tool)

	_, err := e.Run(context.Background(), "hi")

	var execErr *Error
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if execErr.Kind != KindProcess {
		t.Errorf("Kind = %q, want %q", execErr.Kind, KindProcess)
	}
	if execErr.Message == "" {
		t.Error("Message is empty, want a generic non-empty message")
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	e := newTestExecutor("askd-test-no-such-binary")

	_, err := e.Run(context.Background(), "hi")

	var execErr *Error
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if execErr.Kind != KindSpawn {
		t.Errorf("Kind = %q, want %q", execErr.Kind, KindSpawn)
	}
	if !strings.Contains(execErr.Message, "askd-test-no-such-binary") {
		t.Errorf("Message = %q, want to mention the binary name", execErr.Message)
	}
}

func TestRun_OutputTruncation(t *testing.T) {
	tool := stubTool(t, "dd if=/dev/zero bs=200 count=1 2>/dev/null | tr '\\0' 'x'")
	e := newTestExecutor(tool)
	e.MaxOutput = 100

	out, err := e.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) > e.MaxOutput {
		t.Errorf("len(output) = %d, want <= %d", len(out), e.MaxOutput)
	}
}

func TestRun_ConcurrentInvocations(t *testing.T) {
	tool := stubTool(t, `echo "$2"`)
	e := newTestExecutor(tool)

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := e.Run(context.Background(), "ping")
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Run: %v", err)
		}
	}
}
