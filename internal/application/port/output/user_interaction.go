package output

import "context"

// UserInteractionPort receives progress notifications from the loop.
type UserInteractionPort interface {
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowThinking(ctx context.Context, content string)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}
