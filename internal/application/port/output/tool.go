package output

import (
	"context"

	"budget-agent/internal/domain/entity"
)

// ToolPort is a tool whose result is plain text for the model.
type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}

// StatefulToolPort is a tool that also updates session state. Invoke never
// fails: every outcome is expressed in the returned update.
type StatefulToolPort interface {
	ToolPort
	Invoke(ctx context.Context, call entity.ToolCall, queries []string) entity.StateUpdate
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
