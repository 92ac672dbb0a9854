package input

import (
	"context"

	"budget-agent/internal/domain/entity"
)

type ExecuteResult struct {
	FinalAnswer string
	Iterations  int
	// Queries holds the queries attempted during this turn only.
	Queries []string
}

// TaskExecutor runs one question through the agent against a session state.
type TaskExecutor interface {
	Execute(ctx context.Context, state *entity.ConversationState, question string) (*ExecuteResult, error)
}
