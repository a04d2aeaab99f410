package cli

import (
	"context"
	"time"

	"github.com/brightquery-labs/brightquery-cli/internal/config"
	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

// mockChatService returns a canned reply and records inputs.
type mockChatService struct {
	reply     string
	inputs    []string
	resets    int
	turns     []domain.Turn
	sessionID string
}

func (m *mockChatService) HandleTurn(_ context.Context, input string) domain.Turn {
	m.inputs = append(m.inputs, input)
	turn := domain.NewTurn(m.sessionID, domain.RoleAssistant, m.reply)
	m.turns = append(m.turns, turn)
	return turn
}

func (m *mockChatService) History() []domain.Turn {
	return m.turns
}

func (m *mockChatService) SessionID() string {
	return m.sessionID
}

func (m *mockChatService) Reset() {
	m.resets++
	m.turns = nil
}

type mockHistoryService struct {
	sessions []domain.Session
	turns    []domain.Turn
	err      error
}

func (m *mockHistoryService) ListSessions(_ context.Context, limit int) ([]domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.sessions) {
		return m.sessions[:limit], nil
	}
	return m.sessions, nil
}

func (m *mockHistoryService) GetSession(_ context.Context, _ string) ([]domain.Turn, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.turns, nil
}

// mockConfigStore keeps values in memory and records sets.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

func testConfig() *config.Config {
	return &config.Config{
		Gemini: config.GeminiConfig{
			APIKey:            "gemini-key-12345678",
			ChatModel:         config.DefaultChatModel,
			EmbedModel:        config.DefaultEmbedModel,
			CompletionTimeout: 30 * time.Second,
			EmbeddingTimeout:  30 * time.Second,
		},
		Search: config.SearchConfig{
			APIKey:       "search-key-12345678",
			EngineID:     "engine-1",
			Timeout:      10 * time.Second,
			FetchTimeout: 10 * time.Second,
		},
		App: config.AppConfig{SaveHistory: true},
	}
}

// setupTestServices swaps the package-level services for mocks and
// returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldChat := chatService
	oldHistory := historyService
	oldStore := configStore
	oldConfig := appConfig

	chatService = &mockChatService{reply: "Acme offers cloud hosting.", sessionID: "session-test"}
	historyService = &mockHistoryService{}
	configStore = newMockConfigStore()
	appConfig = testConfig()

	return func() {
		chatService = oldChat
		historyService = oldHistory
		configStore = oldStore
		appConfig = oldConfig
	}
}
