package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type askParams struct {
	Prompt string `json:"prompt" jsonschema:"The prompt to send to the assistant CLI."`
}

func (h *handler) askHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params askParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return errorResult("prompt is required")
	}

	text, err := h.execute(ctx, "ask", params.Prompt)
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(text)
}
