package driving

import (
	"context"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

// ChatService processes conversation turns. One turn is handled to
// completion before the next is accepted; there are no concurrent turns.
type ChatService interface {
	// HandleTurn processes one user utterance and returns the assistant
	// reply turn. Collaborator faults never surface as errors - every
	// failure path resolves to a fixed natural-language reply.
	HandleTurn(ctx context.Context, input string) domain.Turn

	// History returns a copy of the session's turns in order.
	History() []domain.Turn

	// SessionID returns the current session identifier.
	SessionID() string

	// Reset discards the conversation and starts a new session.
	Reset()
}

// HistoryService exposes persisted conversation transcripts.
type HistoryService interface {
	// ListSessions returns stored sessions, most recent first.
	ListSessions(ctx context.Context, limit int) ([]domain.Session, error)

	// GetSession returns all turns of a session in order.
	GetSession(ctx context.Context, sessionID string) ([]domain.Turn, error)
}
