package entity

// ConversationState is the session-scoped container threaded through the
// orchestration loop. Messages and Queries are append-only.
type ConversationState struct {
	Messages []Message
	// Queries lists every SELECT that passed the gate and was dispatched,
	// including ones whose execution failed.
	Queries []string
	// IsLastStep is set by the loop when no further tool calls are allowed.
	IsLastStep bool
}

func NewConversationState(seed ...Message) *ConversationState {
	s := &ConversationState{}
	s.Messages = append(s.Messages, seed...)
	return s
}

func (s *ConversationState) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Last returns the most recent message, or false for an empty state.
func (s *ConversationState) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// QueryLog returns a copy of the executed-query list.
func (s *ConversationState) QueryLog() []string {
	out := make([]string, len(s.Queries))
	copy(out, s.Queries)
	return out
}

// Apply performs both halves of a StateUpdate as one transition. A query
// list shorter than the current one is ignored so the log never shrinks.
func (s *ConversationState) Apply(u StateUpdate) {
	if len(u.Queries) >= len(s.Queries) {
		s.Queries = append(s.Queries[:0:0], u.Queries...)
	}
	s.Append(u.Message)
}

// StateUpdate is the result of a stateful tool: the full updated query log
// and the tool message to append.
type StateUpdate struct {
	Queries []string
	Message Message
}
