package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is matched by every *InvalidStateError.
	ErrInvalidState = errors.New("invalid conversation state")
	// ErrSessionNotFound is returned by session stores for unknown IDs.
	ErrSessionNotFound = errors.New("session not found")
)

// InvalidStateError reports that routing was asked to decide on a state
// whose tail is not a freshly produced assistant message.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidState, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
