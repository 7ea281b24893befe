// Package memory provides in-memory driven adapters.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

type sessionEntry struct {
	session domain.Session
	index   driven.ProfileIndex
}

// SessionStore is an in-memory implementation of driven.SessionStore.
// Sessions live for the process lifetime only.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
	}
}

// Put registers a session and its index handle.
func (s *SessionStore) Put(_ context.Context, session domain.Session, index driven.ProfileIndex) error {
	if session.ID == "" {
		return fmt.Errorf("%w: session ID is empty", domain.ErrInvalidInput)
	}
	if index == nil {
		return fmt.Errorf("%w: index is nil", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("%w: session %s already registered", domain.ErrInvalidInput, session.ID)
	}

	s.sessions[session.ID] = sessionEntry{session: session, index: index}
	logger.Debug("session store: registered %s (%s)", session.ID, session.Subject)
	return nil
}

// Get returns the session and index handle for an ID.
func (s *SessionStore) Get(_ context.Context, id string) (domain.Session, driven.ProfileIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return entry.session, entry.index, nil
}

// Delete removes a session and closes its index handle.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	delete(s.sessions, id)
	if err := entry.index.Close(); err != nil {
		return fmt.Errorf("close index for %s: %w", id, err)
	}
	return nil
}

// Len returns the number of registered sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close closes all remaining index handles.
func (s *SessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for id, entry := range s.sessions {
		if err := entry.index.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close index for %s: %w", id, err)
		}
	}
	s.sessions = make(map[string]sessionEntry)
	return firstErr
}
