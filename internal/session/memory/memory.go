package memory

import (
	"context"
	"sync"

	"newschat/internal/domain"
)

// Store keeps session transcripts in a process-local map. It mirrors the
// durable store's semantics so callers cannot tell the backends apart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ChatMessage
}

func NewStore() *Store {
	return &Store{sessions: make(map[string][]domain.ChatMessage)}
}

func (s *Store) Append(_ context.Context, sessionID string, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

func (s *Store) History(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
