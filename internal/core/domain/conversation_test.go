package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationLog_Append(t *testing.T) {
	log := NewConversationLog()

	first := log.Append(RoleUser, "hello")
	second := log.Append(RoleAssistant, "hi there")

	assert.Equal(t, 2, log.Len())
	assert.Equal(t, log.SessionID(), first.SessionID)
	assert.Equal(t, log.SessionID(), second.SessionID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestConversationLog_TurnsReturnsCopy(t *testing.T) {
	log := NewConversationLog()
	log.Append(RoleUser, "original")

	turns := log.Turns()
	turns[0].Text = "mutated"

	assert.Equal(t, "original", log.Turns()[0].Text)
}

func TestConversationLog_Reset(t *testing.T) {
	log := NewConversationLog()
	log.Append(RoleUser, "hello")
	oldSession := log.SessionID()

	log.Reset()

	assert.Zero(t, log.Len())
	assert.NotEqual(t, oldSession, log.SessionID())
}

func TestConversationLog_ConcurrentAppendAndReset(t *testing.T) {
	log := NewConversationLog()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			log.Append(RoleUser, "question")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			log.Reset()
		}
	}()
	wg.Wait()

	// Whatever the interleaving, surviving turns belong to the current
	// session: Reset clears the log before changing the session ID.
	for _, turn := range log.Turns() {
		assert.Equal(t, log.SessionID(), turn.SessionID)
	}
}

func TestNewTurn(t *testing.T) {
	turn := NewTurn("session-1", RoleUser, "a question")

	require.NotEmpty(t, turn.ID)
	assert.Equal(t, "session-1", turn.SessionID)
	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "a question", turn.Text)
	assert.False(t, turn.CreatedAt.IsZero())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("system").IsValid())
}
