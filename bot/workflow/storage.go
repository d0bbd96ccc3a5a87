package workflow

import (
	"context"
	"sync"
	"time"
)

// SessionTTL is how long a session survives without being touched.
const SessionTTL = 10 * time.Minute

// MemoryStateStorage keeps sessions in process memory. Sessions are
// intentionally ephemeral; a restart drops them all. Expiry is detected
// lazily on Load, there is no background sweep.
type MemoryStateStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*UserState
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStateStorage creates an in-memory session storage with the
// default TTL.
func NewMemoryStateStorage() *MemoryStateStorage {
	return &MemoryStateStorage{
		sessions: make(map[int64]*UserState),
		ttl:      SessionTTL,
		now:      time.Now,
	}
}

// Save persists a session, overwriting any previous one for the chat.
func (s *MemoryStateStorage) Save(ctx context.Context, state *UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ChatID] = state
	return nil
}

// Load retrieves the session for a chat. A stale session is removed and
// reported as ErrSessionExpired so the caller can tell the user apart from
// a chat that never started a workflow.
func (s *MemoryStateStorage) Load(ctx context.Context, chatID int64) (*UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(state.UpdatedAt) > s.ttl {
		delete(s.sessions, chatID)
		return nil, ErrSessionExpired
	}
	return state, nil
}

// Delete removes the session for a chat.
func (s *MemoryStateStorage) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}
