package services

import (
	"context"
	"fmt"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driving"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// Ensure TurnOrchestrator implements the interface.
var _ driving.ChatService = (*TurnOrchestrator)(nil)

// Fixed replies for the non-synthesis branches of a turn.
const (
	ReplyGreeting = "Hello there! How can I assist you with company services today?"

	ReplyChitchat = "You're welcome! Is there anything specific about company services you'd like to know?"

	ReplyNoResults = "I couldn't find specific information for that company and service on the web. " +
		"Could you please rephrase or provide more details?"

	ReplyUnidentified = "I couldn't identify a specific company or service in your query. " +
		"Please ask about a company's services (e.g., 'What are Google's cloud services?')."

	replyClarifyFormat = "I can look up information about %s. What specific services or aspects are you interested in?"
)

// IntentExtractor classifies a user query. Implemented by EntityExtractor.
type IntentExtractor interface {
	Extract(ctx context.Context, query string) domain.ExtractedIntent
}

// DocumentRetriever fetches snippet documents for a company/service pair.
// Implemented by SnippetRetriever.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, company, keywords string) []domain.SnippetDocument
}

// AnswerGenerator produces a grounded answer from the turn's documents.
// Implemented by AnswerSynthesizer.
type AnswerGenerator interface {
	Synthesize(ctx context.Context, question string, docs []domain.SnippetDocument, history []domain.Turn) string
}

var (
	_ IntentExtractor   = (*EntityExtractor)(nil)
	_ DocumentRetriever = (*SnippetRetriever)(nil)
	_ AnswerGenerator   = (*AnswerSynthesizer)(nil)
)

// TurnOrchestrator sequences extraction, retrieval, and synthesis for one
// turn at a time and owns the session's append-only conversation log.
// Collaborator faults never surface as errors: every path resolves to a
// natural-language reply.
type TurnOrchestrator struct {
	extractor   IntentExtractor
	retriever   DocumentRetriever
	synthesizer AnswerGenerator

	log   *domain.ConversationLog
	store driven.ConversationStore
}

// NewTurnOrchestrator creates an orchestrator with a fresh session log.
// The store parameter is optional (can be nil); transcripts then stay in
// memory for the lifetime of the session.
func NewTurnOrchestrator(
	extractor IntentExtractor,
	retriever DocumentRetriever,
	synthesizer AnswerGenerator,
	store driven.ConversationStore,
) *TurnOrchestrator {
	return &TurnOrchestrator{
		extractor:   extractor,
		retriever:   retriever,
		synthesizer: synthesizer,
		log:         domain.NewConversationLog(),
		store:       store,
	}
}

// HandleTurn processes one user utterance to completion and returns the
// assistant reply turn. Both turns are appended to the log before return.
func (o *TurnOrchestrator) HandleTurn(ctx context.Context, input string) domain.Turn {
	logger.Section("Turn")

	// History snapshot is taken before this turn's user entry so the
	// synthesizer sees prior turns only; the verbatim question is passed
	// separately.
	history := o.log.Turns()

	userTurn := o.log.Append(domain.RoleUser, input)
	o.persist(ctx, userTurn)

	intent := o.extractor.Extract(ctx, input)
	reply := o.reply(ctx, input, intent, history)

	assistantTurn := o.log.Append(domain.RoleAssistant, reply)
	o.persist(ctx, assistantTurn)
	return assistantTurn
}

// reply applies the transition policy in order against the intent.
func (o *TurnOrchestrator) reply(
	ctx context.Context, input string, intent domain.ExtractedIntent, history []domain.Turn,
) string {
	switch {
	case intent.Kind == domain.IntentGreeting:
		return ReplyGreeting

	case intent.Kind == domain.IntentChitchat:
		return ReplyChitchat

	case intent.Complete():
		logger.Info("Searching for: company=%q services=%q", intent.CompanyName, intent.ServiceKeywords)
		docs := o.retriever.Retrieve(ctx, intent.CompanyName, intent.ServiceKeywords)
		if len(docs) == 0 {
			return ReplyNoResults
		}
		logger.Info("Found %d relevant snippets, generating answer", len(docs))
		return o.synthesizer.Synthesize(ctx, input, docs, history)

	case intent.HasCompany():
		return fmt.Sprintf(replyClarifyFormat, intent.CompanyName)

	default:
		return ReplyUnidentified
	}
}

// persist saves a turn to the conversation store, if one is configured.
// Store faults are logged and never fail the turn.
func (o *TurnOrchestrator) persist(ctx context.Context, turn domain.Turn) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveTurn(ctx, turn); err != nil {
		logger.Warn("Could not save turn to history: %v", err)
	}
}

// History returns a copy of the session's turns in order.
func (o *TurnOrchestrator) History() []domain.Turn {
	return o.log.Turns()
}

// SessionID returns the current session identifier.
func (o *TurnOrchestrator) SessionID() string {
	return o.log.SessionID()
}

// Reset discards the conversation and starts a new session.
func (o *TurnOrchestrator) Reset() {
	o.log.Reset()
}
