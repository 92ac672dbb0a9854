// Package router decides the control-flow edge taken after each model turn.
package router

import (
	"fmt"

	"budget-agent/internal/domain/entity"
)

// Edge names the next step of the loop.
type Edge string

const (
	EdgeTools Edge = "tools"
	EdgeEnd   Edge = "end"
)

func (e Edge) String() string {
	return string(e)
}

// Route inspects the last message of the state. It only accepts a state whose
// tail is an assistant message; anything else is an *entity.InvalidStateError.
func Route(state *entity.ConversationState) (Edge, error) {
	if state == nil {
		return "", &entity.InvalidStateError{Reason: "no messages to route on"}
	}
	last, ok := state.Last()
	if !ok {
		return "", &entity.InvalidStateError{Reason: "no messages to route on"}
	}
	if last.Role != entity.RoleAssistant {
		return "", &entity.InvalidStateError{
			Reason: fmt.Sprintf("Expected an assistant message but got %s", last.Role),
		}
	}
	if last.HasToolCalls() {
		return EdgeTools, nil
	}
	return EdgeEnd, nil
}
