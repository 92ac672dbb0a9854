package output

import (
	"context"

	"budget-agent/internal/domain/entity"
)

// LLMPort produces exactly one assistant message for the given conversation.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}
