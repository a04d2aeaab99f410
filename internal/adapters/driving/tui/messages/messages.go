// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

// TurnCompleted carries the assistant reply back to the model.
type TurnCompleted struct {
	Turn domain.Turn
}

// SessionReset signals the conversation was discarded.
type SessionReset struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
