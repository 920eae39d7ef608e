// Package memory provides an in-memory session store for local development
// and tests where Redis is not available. State is lost on restart.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// SessionStore keeps browser session state in a map guarded by a mutex.
// Expired entries are dropped lazily on Get.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.SessionState
	now      func() time.Time
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domainauth.SessionState),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !state.ExpiresAt.After(s.now()) {
		return errors.New("session is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state.Version++
	s.sessions[state.ID] = state
	return nil
}

// SaveIf writes the state only when the stored record's version still matches
// state.Version. A concurrent write in between returns ports.ErrSessionConflict.
func (s *SessionStore) SaveIf(_ context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !state.ExpiresAt.After(s.now()) {
		return errors.New("session is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[state.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != state.Version {
		return ports.ErrSessionConflict
	}
	state.Version++
	s.sessions[state.ID] = state
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.SessionState, error) {
	if id == "" {
		return domainauth.SessionState{}, ErrNotFound
	}

	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.SessionState{}, ErrNotFound
	}

	if s.now().After(state.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.SessionState{}, ErrNotFound
	}

	return state, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired entries included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ErrNotFound is returned when a session is not found.
var ErrNotFound = ports.ErrSessionNotFound
