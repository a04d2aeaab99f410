package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

func TestTurnOrchestrator_Greeting(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	retriever := &mockRetriever{}
	synthesizer := &mockSynthesizer{}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "hello!")

	assert.Equal(t, ReplyGreeting, turn.Text)
	assert.Equal(t, domain.RoleAssistant, turn.Role)
	assert.Equal(t, 0, retriever.retrieveCalls)
	assert.Equal(t, 0, synthesizer.synthesizeCalls)
}

func TestTurnOrchestrator_Chitchat(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentChitchat}}
	retriever := &mockRetriever{}
	synthesizer := &mockSynthesizer{}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "thanks!")

	assert.Equal(t, ReplyChitchat, turn.Text)
	assert.Equal(t, 0, retriever.retrieveCalls)
	assert.Equal(t, 0, synthesizer.synthesizeCalls)
}

func TestTurnOrchestrator_CompleteIntent(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{
		Kind:            domain.IntentNormal,
		CompanyName:     "Acme",
		ServiceKeywords: "cloud hosting",
	}}
	docs := []domain.SnippetDocument{{Content: "Acme hosts things.", Title: "Acme"}}
	retriever := &mockRetriever{docs: docs}
	synthesizer := &mockSynthesizer{answer: "Acme offers cloud hosting."}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "What does Acme host?")

	assert.Equal(t, "Acme offers cloud hosting.", turn.Text)
	assert.Equal(t, 1, retriever.retrieveCalls)
	assert.Equal(t, "Acme", retriever.lastCompany)
	assert.Equal(t, "cloud hosting", retriever.lastKeywords)
	require.Equal(t, 1, synthesizer.synthesizeCalls)
	assert.Equal(t, "What does Acme host?", synthesizer.lastQuestion)
	assert.Equal(t, docs, synthesizer.lastDocs)
}

func TestTurnOrchestrator_CompleteIntent_NoResults(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{
		Kind:            domain.IntentNormal,
		CompanyName:     "Acme",
		ServiceKeywords: "cloud",
	}}
	retriever := &mockRetriever{docs: nil}
	synthesizer := &mockSynthesizer{answer: "unused"}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "What does Acme host?")

	assert.Equal(t, ReplyNoResults, turn.Text)
	assert.Equal(t, 1, retriever.retrieveCalls)
	assert.Equal(t, 0, synthesizer.synthesizeCalls)
}

func TestTurnOrchestrator_CompanyOnly_AsksForClarification(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{
		Kind:        domain.IntentUnresolved,
		CompanyName: "Stripe",
	}}
	retriever := &mockRetriever{}
	synthesizer := &mockSynthesizer{}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "Tell me about Stripe")

	assert.Equal(t, fmt.Sprintf(replyClarifyFormat, "Stripe"), turn.Text)
	assert.Equal(t, 0, retriever.retrieveCalls)
}

func TestTurnOrchestrator_Unresolved(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentUnresolved}}
	retriever := &mockRetriever{}
	synthesizer := &mockSynthesizer{}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "what is the weather?")

	assert.Equal(t, ReplyUnidentified, turn.Text)
	assert.Equal(t, 0, retriever.retrieveCalls)
	assert.Equal(t, 0, synthesizer.synthesizeCalls)
}

func TestTurnOrchestrator_LogsBothTurns(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	o := NewTurnOrchestrator(extractor, &mockRetriever{}, &mockSynthesizer{}, nil)

	o.HandleTurn(context.Background(), "hello!")

	history := o.History()
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hello!", history[0].Text)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, ReplyGreeting, history[1].Text)
	assert.Equal(t, o.SessionID(), history[0].SessionID)
}

func TestTurnOrchestrator_HistoryExcludesCurrentTurn(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{
		Kind:            domain.IntentNormal,
		CompanyName:     "Acme",
		ServiceKeywords: "cloud",
	}}
	retriever := &mockRetriever{docs: []domain.SnippetDocument{{Content: "doc"}}}
	synthesizer := &mockSynthesizer{answer: "first answer"}
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	o.HandleTurn(context.Background(), "first question")
	assert.Empty(t, synthesizer.lastHistory)

	o.HandleTurn(context.Background(), "second question")
	require.Len(t, synthesizer.lastHistory, 2)
	assert.Equal(t, "first question", synthesizer.lastHistory[0].Text)
	assert.Equal(t, "first answer", synthesizer.lastHistory[1].Text)
}

func TestTurnOrchestrator_PersistsTurns(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	store := &mockConversationStore{}
	o := NewTurnOrchestrator(extractor, &mockRetriever{}, &mockSynthesizer{}, store)

	o.HandleTurn(context.Background(), "hello!")

	require.Len(t, store.saved, 2)
	assert.Equal(t, domain.RoleUser, store.saved[0].Role)
	assert.Equal(t, domain.RoleAssistant, store.saved[1].Role)
}

func TestTurnOrchestrator_StoreFaultDoesNotFailTurn(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	store := &mockConversationStore{saveErr: errors.New("disk full")}
	o := NewTurnOrchestrator(extractor, &mockRetriever{}, &mockSynthesizer{}, store)

	turn := o.HandleTurn(context.Background(), "hello!")

	assert.Equal(t, ReplyGreeting, turn.Text)
	assert.Equal(t, 2, o.log.Len())
}

func TestTurnOrchestrator_Reset(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	o := NewTurnOrchestrator(extractor, &mockRetriever{}, &mockSynthesizer{}, nil)

	o.HandleTurn(context.Background(), "hello!")
	firstSession := o.SessionID()

	o.Reset()

	assert.Empty(t, o.History())
	assert.NotEqual(t, firstSession, o.SessionID())
}

func TestTurnOrchestrator_FullyDegraded(t *testing.T) {
	// No credentials anywhere: extraction yields unresolved, and the
	// turn still completes with a natural-language reply.
	extractor := NewEntityExtractor(nil, 0)
	retriever := NewSnippetRetriever(nil, 0)
	synthesizer := NewAnswerSynthesizer(nil, nil, nil, 0, 0)
	o := NewTurnOrchestrator(extractor, retriever, synthesizer, nil)

	turn := o.HandleTurn(context.Background(), "What are Google's cloud services?")

	assert.Equal(t, ReplyUnidentified, turn.Text)
}

func TestTurnOrchestrator_ResetDuringTurnIsSafe(t *testing.T) {
	extractor := &mockExtractor{intent: domain.ExtractedIntent{Kind: domain.IntentGreeting}}
	o := NewTurnOrchestrator(extractor, &mockRetriever{}, &mockSynthesizer{}, nil)

	// The TUI runs Reset from a background command, so it can land while
	// a turn is mid-flight between its two log appends.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			o.HandleTurn(context.Background(), "hello")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			o.Reset()
		}
	}()
	wg.Wait()

	// Surviving turns were appended after the last reset and belong to
	// the current session.
	for _, turn := range o.History() {
		assert.Equal(t, o.SessionID(), turn.SessionID)
	}
}
