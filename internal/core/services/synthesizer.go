package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// Fallback replies returned by the synthesizer. Faults never propagate
// past this service; every failure path resolves to one of these.
const (
	ReplyNotConfigured = "I'm sorry, my core AI capabilities are not configured. Please check the API key."

	ReplyNoRelevantInfo = "I couldn't find enough relevant information on the web to answer that specific query. " +
		"Please try rephrasing or asking about a different company/service."

	ReplyNoAnswer = "I couldn't generate an answer based on the retrieved information."

	ReplyInternalError = "I'm sorry, I encountered an internal error while trying to process your request."
)

// answerSystemPrompt pins the model to the retrieved evidence.
const answerSystemPrompt = `You are an AI assistant specializing in providing information about various companies' services. ` +
	`Use the following 'SEARCH RESULTS' to answer the user's question accurately and concisely. ` +
	`Focus only on the information provided in the 'SEARCH RESULTS'. ` +
	`If the 'SEARCH RESULTS' do not contain the answer, state clearly that you cannot find the answer ` +
	`based on the provided information. Do not make up any details. ` +
	`If the user asks for contact information, provide it if available in the search results, otherwise state it's not available.`

// answerTopK is how many documents ground each answer.
const answerTopK = 3

// IndexFactory builds a fresh, empty vector index. The synthesizer calls
// it once per turn so the index only ever holds that turn's documents.
type IndexFactory func() driven.VectorIndex

// AnswerSynthesizer produces a grounded answer from the current turn's
// snippet documents. It embeds every document, ranks them against the
// question in a transient index, and issues a single completion call over
// the top-ranked context plus the conversation history.
//
// The conversation history shapes tone and continuity only; it never
// influences which documents are selected.
type AnswerSynthesizer struct {
	completion driven.CompletionService
	embedder   driven.EmbeddingService
	newIndex   IndexFactory

	completionTimeout time.Duration
	embeddingTimeout  time.Duration
}

// NewAnswerSynthesizer creates an answer synthesizer.
// The completion and embedder parameters are optional (can be nil);
// synthesis then returns the not-configured fallback.
func NewAnswerSynthesizer(
	completion driven.CompletionService,
	embedder driven.EmbeddingService,
	newIndex IndexFactory,
	completionTimeout, embeddingTimeout time.Duration,
) *AnswerSynthesizer {
	if completionTimeout <= 0 {
		completionTimeout = 60 * time.Second
	}
	if embeddingTimeout <= 0 {
		embeddingTimeout = 30 * time.Second
	}
	return &AnswerSynthesizer{
		completion:        completion,
		embedder:          embedder,
		newIndex:          newIndex,
		completionTimeout: completionTimeout,
		embeddingTimeout:  embeddingTimeout,
	}
}

// Synthesize answers question from docs, using history for tone only.
// It never returns an error; every fault maps to a fixed fallback reply.
func (s *AnswerSynthesizer) Synthesize(
	ctx context.Context, question string, docs []domain.SnippetDocument, history []domain.Turn,
) string {
	logger.Section("Answer Synthesis")

	// Guards run before any capability is touched: neither embeddings
	// nor completion may be invoked on these paths.
	if s.completion == nil || s.embedder == nil || s.newIndex == nil {
		logger.Debug("AI capabilities not configured, returning fallback")
		return ReplyNotConfigured
	}
	if len(docs) == 0 {
		logger.Debug("No documents to ground an answer, returning fallback")
		return ReplyNoRelevantInfo
	}

	answer, err := s.generate(ctx, question, docs, history)
	if err != nil {
		logger.Error("Answer synthesis failed: %v", err)
		return ReplyInternalError
	}
	if answer == "" {
		logger.Warn("Completion returned no answer text")
		return ReplyNoAnswer
	}
	return answer
}

// generate runs the embed -> index -> select -> complete pipeline.
func (s *AnswerSynthesizer) generate(
	ctx context.Context, question string, docs []domain.SnippetDocument, history []domain.Turn,
) (string, error) {
	selected, err := s.selectTopDocuments(ctx, question, docs)
	if err != nil {
		return "", err
	}
	logger.Info("Selected %d of %d documents as context", len(selected), len(docs))

	messages := buildAnswerMessages(question, selected, history)

	completionCtx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	answer, err := s.completion.Chat(completionCtx, messages, driven.ChatOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("answer completion: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// selectTopDocuments embeds the documents and the question, builds a
// transient index, and returns the top-k documents by similarity.
// Ties keep retrieval order: the index search is stable on insertion
// order, and documents are inserted in provider rank order.
func (s *AnswerSynthesizer) selectTopDocuments(
	ctx context.Context, question string, docs []domain.SnippetDocument,
) ([]domain.SnippetDocument, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.embeddingTimeout)
	defer cancel()

	contents := make([]string, len(docs))
	for i := range docs {
		contents[i] = docs[i].Content
	}

	// One batch call for all documents of the turn.
	vectors, err := s.embedder.EmbedBatch(embedCtx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embed documents: got %d vectors for %d documents", len(vectors), len(docs))
	}

	// The index lives exactly as long as this call.
	index := s.newIndex()
	defer index.Close()

	for i, vec := range vectors {
		if err := index.Add(embedCtx, strconv.Itoa(i), vec); err != nil {
			return nil, fmt.Errorf("index document %d: %w", i, err)
		}
	}

	questionVec, err := s.embedder.Embed(embedCtx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := index.Search(embedCtx, questionVec, answerTopK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	selected := make([]domain.SnippetDocument, 0, len(hits))
	for _, hit := range hits {
		rank, err := strconv.Atoi(hit.DocID)
		if err != nil || rank < 0 || rank >= len(docs) {
			return nil, fmt.Errorf("similarity search: unknown document id %q", hit.DocID)
		}
		logger.Debug("Context doc [%d] %q (similarity %.3f)", rank, docs[rank].Title, hit.Similarity)
		selected = append(selected, docs[rank])
	}
	return selected, nil
}

// buildAnswerMessages assembles the grounding prompt: fixed instruction
// plus context, then the prior conversation, then the verbatim question.
func buildAnswerMessages(question string, selected []domain.SnippetDocument, history []domain.Turn) []driven.ChatMessage {
	var context strings.Builder
	for i, doc := range selected {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Title: %s\nSource: %s\n%s", doc.Title, doc.SourceURL, doc.Content)
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    driven.RoleSystem,
		Content: answerSystemPrompt + "\n\nSEARCH RESULTS:\n" + context.String(),
	})
	for _, turn := range history {
		role := driven.RoleUser
		if turn.Role == domain.RoleAssistant {
			role = driven.RoleAssistant
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: question})
	return messages
}
