package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	// RoleUser is a turn authored by the end user.
	RoleUser Role = "user"

	// RoleAssistant is a turn authored by the assistant.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Turn is a single utterance in a conversation.
type Turn struct {
	// ID is the unique identifier for the turn.
	ID string

	// SessionID links the turn to its conversation session.
	SessionID string

	// Role is the author of the turn.
	Role Role

	// Text is the utterance content.
	Text string

	// CreatedAt is when the turn was recorded.
	CreatedAt time.Time
}

// NewTurn creates a turn with a fresh ID and timestamp.
func NewTurn(sessionID string, role Role, text string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// ConversationLog is the append-only record of a session's turns.
// Only the orchestrator appends; everything else reads a copy. Safe for
// concurrent use: the TUI resets the session from a background command
// while a turn may still be in flight.
type ConversationLog struct {
	mu        sync.Mutex
	sessionID string
	turns     []Turn
}

// NewConversationLog creates an empty log for a new session.
func NewConversationLog() *ConversationLog {
	return &ConversationLog{
		sessionID: uuid.New().String(),
	}
}

// SessionID returns the session identifier for this log.
func (l *ConversationLog) SessionID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessionID
}

// Append records a turn at the end of the log and returns it.
func (l *ConversationLog) Append(role Role, text string) Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	turn := NewTurn(l.sessionID, role, text)
	l.turns = append(l.turns, turn)
	return turn
}

// Turns returns a copy of the recorded turns in order.
func (l *ConversationLog) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of recorded turns.
func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Reset discards all turns and starts a new session.
func (l *ConversationLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessionID = uuid.New().String()
	l.turns = nil
}

// Session is a persisted conversation summary.
type Session struct {
	// ID is the session identifier.
	ID string

	// StartedAt is when the first turn was recorded.
	StartedAt time.Time

	// TurnCount is the number of turns in the session.
	TurnCount int

	// FirstQuestion is the opening user utterance, for listings.
	FirstQuestion string
}
