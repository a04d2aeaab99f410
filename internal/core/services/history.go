package services

import (
	"context"
	"fmt"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes persisted conversation transcripts for the
// history command. Read-only: only the orchestrator writes turns.
type HistoryService struct {
	store driven.ConversationStore
}

// NewHistoryService creates a history service over the given store.
func NewHistoryService(store driven.ConversationStore) *HistoryService {
	return &HistoryService{store: store}
}

// ListSessions returns stored sessions, most recent first.
func (s *HistoryService) ListSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = 20
	}
	sessions, err := s.store.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns all turns of a session in order.
func (s *HistoryService) GetSession(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	turns, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return turns, nil
}
