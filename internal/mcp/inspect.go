package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/askd/internal/record"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RequestID string `json:"request_id" jsonschema:"The request id returned in X-Request-ID or logged by a previous call."`
}

func (h *handler) inspectHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params inspectParams) (*sdkmcp.CallToolResult, any, error) {
	if params.RequestID == "" {
		return errorResult("request_id is required")
	}

	rec, err := h.store.Load(params.RequestID)
	if err != nil {
		return errorResult(fmt.Sprintf("no record for request %s", params.RequestID))
	}
	return textResult(formatRecord(rec))
}

func formatRecord(rec *record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s\n", rec.ID)
	fmt.Fprintf(&b, "Endpoint: %s\n", rec.Endpoint)
	fmt.Fprintf(&b, "Outcome: %s\n", rec.Outcome)
	if rec.ErrorKind != "" {
		fmt.Fprintf(&b, "Error kind: %s\n", rec.ErrorKind)
	}
	if rec.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", rec.Message)
	}
	fmt.Fprintf(&b, "Prompt: %d chars\n", rec.PromptChars)
	fmt.Fprintf(&b, "Response: %d chars\n", rec.ResponseChars)
	fmt.Fprintf(&b, "Duration: %dms\n", rec.DurationMs)
	fmt.Fprintf(&b, "Time: %s\n", rec.Time.Format("2006-01-02T15:04:05Z07:00"))
	return b.String()
}
