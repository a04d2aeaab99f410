// Package memory provides an in-memory conversation store. Transcripts
// live only for the lifetime of the process; used when history saving is
// disabled and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps transcripts in process memory.
type ConversationStore struct {
	mu       sync.RWMutex
	turns    map[string][]domain.Turn // sessionID -> turns in insertion order
	sessions []string                 // session IDs in first-seen order
}

// NewConversationStore creates an empty in-memory store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		turns: make(map[string][]domain.Turn),
	}
}

// SaveTurn appends a turn to its session's transcript.
func (s *ConversationStore) SaveTurn(_ context.Context, turn domain.Turn) error {
	if turn.ID == "" || turn.SessionID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.turns[turn.SessionID]; !ok {
		s.sessions = append(s.sessions, turn.SessionID)
	}
	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// ListSessions returns stored sessions, most recent first.
func (s *ConversationStore) ListSessions(_ context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.Session, 0, len(s.sessions))
	for i := len(s.sessions) - 1; i >= 0 && len(sessions) < limit; i-- {
		id := s.sessions[i]
		turns := s.turns[id]
		session := domain.Session{
			ID:        id,
			TurnCount: len(turns),
		}
		if len(turns) > 0 {
			session.StartedAt = turns[0].CreatedAt
		}
		for _, turn := range turns {
			if turn.Role == domain.RoleUser {
				session.FirstQuestion = turn.Text
				break
			}
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// GetSession returns all turns of a session in order.
func (s *ConversationStore) GetSession(_ context.Context, sessionID string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok || len(turns) == 0 {
		return nil, domain.ErrNotFound
	}

	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Len returns the total number of stored turns across all sessions.
func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, turns := range s.turns {
		total += len(turns)
	}
	return total
}

// Close releases resources.
func (s *ConversationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make(map[string][]domain.Turn)
	s.sessions = nil
	return nil
}
