package service

import (
	"context"
	"sync"
	"time"

	"budget-agent/internal/domain/entity"

	"github.com/google/uuid"
)

// Session owns one conversation state. Turns on the same session are
// serialized through Do.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	state *entity.ConversationState
}

// Do runs fn with exclusive access to the session state.
func (s *Session) Do(fn func(state *entity.ConversationState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Snapshot returns a copy of the current messages and query log.
func (s *Session) Snapshot() ([]entity.Message, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]entity.Message, len(s.state.Messages))
	copy(msgs, s.state.Messages)
	return msgs, s.state.QueryLog()
}

// SessionStore keeps sessions in memory for the lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (st *SessionStore) Create(_ context.Context) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: st.now(),
		state:     entity.NewConversationState(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *SessionStore) Get(_ context.Context, id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Delete(_ context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
