package tui

import (
	"errors"

	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driving"
)

// Ports provides access to core services via driving ports.
type Ports struct {
	// Chat processes conversation turns.
	Chat driving.ChatService
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports must not be nil")
	}
	if p.Chat == nil {
		return errors.New("chat service is required")
	}
	return nil
}
