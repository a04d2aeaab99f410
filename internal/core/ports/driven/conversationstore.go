package driven

import (
	"context"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

// ConversationStore persists conversation transcripts across process
// runs. Only turns are stored - snippet documents and retrieval indices
// stay ephemeral per turn.
//
// This is an optional service - when nil, transcripts are kept in memory
// for the lifetime of the session only.
type ConversationStore interface {
	// SaveTurn appends a turn to its session's transcript.
	SaveTurn(ctx context.Context, turn domain.Turn) error

	// ListSessions returns stored sessions, most recent first.
	ListSessions(ctx context.Context, limit int) ([]domain.Session, error)

	// GetSession returns all turns of a session in order.
	GetSession(ctx context.Context, sessionID string) ([]domain.Turn, error)

	// Close releases resources.
	Close() error
}
