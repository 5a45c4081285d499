// Package mcp provides the askd MCP server, exposing the assistant CLI
// as ask and chat tools plus record inspection.
package mcp

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/deixis/askd"
	"github.com/deixis/askd/internal/executor"
	"github.com/deixis/askd/internal/record"
	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// Runner executes a flattened prompt and returns the assistant's answer.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// handler holds shared dependencies for all tool handlers.
type handler struct {
	runner Runner
	store  record.Store
}

// NewServer creates an MCP server with the askd tools registered.
func NewServer(runner Runner, store record.Store) *sdkmcp.Server {
	h := &handler{runner: runner, store: store}

	opts := &sdkmcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &sdkmcp.ServerCapabilities{
			Tools: &sdkmcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "askd", Version: askd.Version}, opts)

	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name:        "ask",
		Description: "Send a single prompt to the local assistant CLI and return its answer.",
	}, h.askHandler)

	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name: "chat",
		Description: `Send a conversation to the local assistant CLI.

Messages are flattened into a single role-prefixed prompt, with an optional
system instruction first. Each call is independent; no state is kept.`,
	}, h.chatHandler)

	sdkmcp.AddTool(s, &sdkmcp.Tool{
		Name: "inspect",
		Description: `Look up the execution record for a past request by its id.

Records hold the outcome, error kind, sizes, and duration of a request
handled by this server.`,
	}, h.inspectHandler)

	return s
}

// execute runs a flattened prompt through the runner and saves an
// execution record under a fresh request id.
func (h *handler) execute(ctx context.Context, tool, flattened string) (string, error) {
	id := uuid.NewString()[:8]
	start := time.Now()
	text, err := h.runner.Run(ctx, flattened)

	rec := &record.Record{
		ID:          id,
		Endpoint:    "tool:" + tool,
		Outcome:     record.OK,
		PromptChars: len(flattened),
		DurationMs:  time.Since(start).Milliseconds(),
		Time:        start.UTC(),
	}
	if err != nil {
		rec.Outcome = record.Failed
		rec.Message = err.Error()
		var execErr *executor.Error
		if errors.As(err, &execErr) {
			rec.ErrorKind = string(execErr.Kind)
			rec.Message = execErr.Message
		}
	} else {
		rec.ResponseChars = len(text)
	}
	_ = h.store.Save(rec)

	return text, err
}

// textResult is a helper to build a successful tool result.
func textResult(text string) (*sdkmcp.CallToolResult, any, error) {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*sdkmcp.CallToolResult, any, error) {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
