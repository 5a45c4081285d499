package mcp

import (
	"context"

	"github.com/deixis/askd/internal/prompt"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type chatMessage struct {
	Role    string `json:"role" jsonschema:"Speaker role, conventionally user or assistant."`
	Content string `json:"content" jsonschema:"Message text."`
}

type chatParams struct {
	Messages []chatMessage `json:"messages" jsonschema:"Ordered conversation turns."`
	System   string        `json:"system,omitempty" jsonschema:"Optional system instruction placed before the conversation."`
}

func (h *handler) chatHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params chatParams) (*sdkmcp.CallToolResult, any, error) {
	if len(params.Messages) == 0 {
		return errorResult("messages is required")
	}

	msgs := make([]prompt.Message, len(params.Messages))
	for i, m := range params.Messages {
		msgs[i] = prompt.Message{Role: m.Role, Content: m.Content}
	}

	text, err := h.execute(ctx, "chat", prompt.Flatten(msgs, params.System))
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(text)
}
