package services

import (
	"context"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
)

// --- Mock implementations of driven ports ---

// mockCompletionService implements driven.CompletionService for testing.
type mockCompletionService struct {
	chatResponse string
	chatErr      error

	chatCalls    int
	lastMessages []driven.ChatMessage
	lastOptions  driven.ChatOptions
}

func (m *mockCompletionService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.chatResponse, m.chatErr
}

func (m *mockCompletionService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMessages = messages
	m.lastOptions = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResponse, nil
}

func (m *mockCompletionService) ModelName() string {
	return "mock-chat"
}

func (m *mockCompletionService) Ping(_ context.Context) error {
	return nil
}

func (m *mockCompletionService) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are looked up per text; unknown texts get defaultVec.
type mockEmbeddingService struct {
	vectors    map[string][]float32
	defaultVec []float32
	embedErr   error
	batchErr   error
	batchShort bool // return one vector fewer than requested

	embedCalls int
	batchCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, 0, len(texts))
	for _, text := range texts {
		result = append(result, m.vectorFor(text))
	}
	if m.batchShort && len(result) > 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if vec, ok := m.vectors[text]; ok {
		return vec
	}
	if m.defaultVec != nil {
		return m.defaultVec
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Dimensions() int {
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockWebSearcher implements driven.WebSearcher for testing.
type mockWebSearcher struct {
	items     []driven.SearchItem
	searchErr error

	searchCalls int
	lastQuery   string
	lastLimit   int
}

func (m *mockWebSearcher) Search(_ context.Context, query string, limit int) ([]driven.SearchItem, error) {
	m.searchCalls++
	m.lastQuery = query
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.items, nil
}

func (m *mockWebSearcher) Close() error {
	return nil
}

// mockPageFetcher implements driven.PageFetcher for testing.
type mockPageFetcher struct {
	pages    map[string]string
	fetchErr error

	fetchCalls int
}

func (m *mockPageFetcher) FetchText(_ context.Context, url string) (string, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.pages[url], nil
}

func (m *mockPageFetcher) Close() error {
	return nil
}

// mockConversationStore implements driven.ConversationStore for testing.
type mockConversationStore struct {
	saved   []domain.Turn
	saveErr error
}

func (m *mockConversationStore) SaveTurn(_ context.Context, turn domain.Turn) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, turn)
	return nil
}

func (m *mockConversationStore) ListSessions(_ context.Context, _ int) ([]domain.Session, error) {
	return nil, nil
}

func (m *mockConversationStore) GetSession(_ context.Context, _ string) ([]domain.Turn, error) {
	return nil, domain.ErrNotFound
}

func (m *mockConversationStore) Close() error {
	return nil
}

// --- Mock implementations of orchestrator collaborators ---

// mockExtractor implements IntentExtractor for testing.
type mockExtractor struct {
	intent domain.ExtractedIntent

	extractCalls int
	lastQuery    string
}

func (m *mockExtractor) Extract(_ context.Context, query string) domain.ExtractedIntent {
	m.extractCalls++
	m.lastQuery = query
	return m.intent
}

// mockRetriever implements DocumentRetriever for testing.
type mockRetriever struct {
	docs []domain.SnippetDocument

	retrieveCalls int
	lastCompany   string
	lastKeywords  string
}

func (m *mockRetriever) Retrieve(_ context.Context, company, keywords string) []domain.SnippetDocument {
	m.retrieveCalls++
	m.lastCompany = company
	m.lastKeywords = keywords
	return m.docs
}

// mockSynthesizer implements AnswerGenerator for testing.
type mockSynthesizer struct {
	answer string

	synthesizeCalls int
	lastQuestion    string
	lastDocs        []domain.SnippetDocument
	lastHistory     []domain.Turn
}

func (m *mockSynthesizer) Synthesize(
	_ context.Context, question string, docs []domain.SnippetDocument, history []domain.Turn,
) string {
	m.synthesizeCalls++
	m.lastQuestion = question
	m.lastDocs = docs
	m.lastHistory = history
	return m.answer
}
