// Package config loads process configuration from the environment once at
// startup. Components receive the resulting Config by reference; nothing
// in the core reads environment variables directly.
//
// Missing credentials are a valid state: the affected capability is left
// unconfigured and the pipeline degrades to fallback replies instead of
// failing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// Default model identifiers and timeouts. One model per capability,
// shared by extraction and answering.
const (
	DefaultChatModel  = "gemini-1.5-flash"
	DefaultEmbedModel = "text-embedding-004"

	DefaultCompletionTimeout = 60 * time.Second
	DefaultEmbeddingTimeout  = 30 * time.Second
	DefaultSearchTimeout     = 15 * time.Second
	DefaultFetchTimeout      = 10 * time.Second
)

// Config is the process-wide configuration, built once at startup.
type Config struct {
	Gemini GeminiConfig
	Search SearchConfig
	App    AppConfig
}

// GeminiConfig configures the completion and embedding services.
type GeminiConfig struct {
	// APIKey authorises Gemini API calls. Empty means unconfigured.
	APIKey string

	// ChatModel is the model for extraction and answer generation.
	ChatModel string

	// EmbedModel is the model for snippet and question embeddings.
	EmbedModel string

	// CompletionTimeout bounds each completion call.
	CompletionTimeout time.Duration

	// EmbeddingTimeout bounds each embedding call.
	EmbeddingTimeout time.Duration
}

// SearchConfig configures the web search provider.
type SearchConfig struct {
	// APIKey authorises Programmable Search calls. Empty means unconfigured.
	APIKey string

	// EngineID is the Programmable Search engine identifier.
	EngineID string

	// Timeout bounds each search call.
	Timeout time.Duration

	// DeepFetch replaces result snippets with full page text.
	DeepFetch bool

	// FetchTimeout bounds each page fetch in deep mode.
	FetchTimeout time.Duration
}

// AppConfig holds general application settings.
type AppConfig struct {
	// DataDir is where transcripts and config files live.
	// Empty means the default ~/.brightquery.
	DataDir string

	// SaveHistory persists session transcripts to the local store.
	SaveHistory bool
}

// Load builds the configuration from the environment, reading an optional
// .env file first for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Gemini: GeminiConfig{
			APIKey:            os.Getenv("GEMINI_API_KEY"),
			ChatModel:         getEnv("BRIGHTQUERY_CHAT_MODEL", DefaultChatModel),
			EmbedModel:        getEnv("BRIGHTQUERY_EMBED_MODEL", DefaultEmbedModel),
			CompletionTimeout: getEnvAsDuration("BRIGHTQUERY_COMPLETION_TIMEOUT", DefaultCompletionTimeout),
			EmbeddingTimeout:  getEnvAsDuration("BRIGHTQUERY_EMBEDDING_TIMEOUT", DefaultEmbeddingTimeout),
		},
		Search: SearchConfig{
			APIKey:       os.Getenv("GOOGLE_CSE_API_KEY"),
			EngineID:     os.Getenv("GOOGLE_CSE_ID"),
			Timeout:      getEnvAsDuration("BRIGHTQUERY_SEARCH_TIMEOUT", DefaultSearchTimeout),
			DeepFetch:    getEnvAsBool("BRIGHTQUERY_DEEP_FETCH", false),
			FetchTimeout: getEnvAsDuration("BRIGHTQUERY_FETCH_TIMEOUT", DefaultFetchTimeout),
		},
		App: AppConfig{
			DataDir:     os.Getenv("BRIGHTQUERY_DATA_DIR"),
			SaveHistory: getEnvAsBool("BRIGHTQUERY_SAVE_HISTORY", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WarnMissing logs a warning for each unconfigured capability. Called
// after stored config has been applied so warnings reflect the final
// state.
func (c *Config) WarnMissing() {
	if !c.HasGemini() {
		logger.Warn("GEMINI_API_KEY not set; extraction and answering will use fallback replies")
	}
	if !c.HasSearch() {
		logger.Warn("Google Programmable Search credentials not set; web retrieval is disabled")
	}
}

// Validate checks that configured values are usable. Credential absence
// is not an error.
func (c *Config) Validate() error {
	if c.Gemini.ChatModel == "" {
		return fmt.Errorf("chat model must not be empty")
	}
	if c.Gemini.EmbedModel == "" {
		return fmt.Errorf("embed model must not be empty")
	}
	for name, d := range map[string]time.Duration{
		"completion timeout": c.Gemini.CompletionTimeout,
		"embedding timeout":  c.Gemini.EmbeddingTimeout,
		"search timeout":     c.Search.Timeout,
		"fetch timeout":      c.Search.FetchTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// Stored configuration keys recognised by ApplyStore, in dot notation
// matching the TOML file layout.
const (
	KeyGeminiAPIKey   = "gemini.api_key"
	KeyChatModel      = "gemini.chat_model"
	KeyEmbedModel     = "gemini.embed_model"
	KeySearchAPIKey   = "search.api_key"
	KeySearchEngineID = "search.engine_id"
	KeyDeepFetch      = "search.deep_fetch"
	KeySaveHistory    = "app.save_history"
)

// ConfigStore is the subset of the persisted store that Load consults.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetBool(key string) bool
}

// ApplyStore fills values that the environment left unset from the
// persisted config store. Environment variables always win.
func (c *Config) ApplyStore(store ConfigStore) {
	if store == nil {
		return
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = store.GetString(KeyGeminiAPIKey)
	}
	if os.Getenv("BRIGHTQUERY_CHAT_MODEL") == "" {
		if v := store.GetString(KeyChatModel); v != "" {
			c.Gemini.ChatModel = v
		}
	}
	if os.Getenv("BRIGHTQUERY_EMBED_MODEL") == "" {
		if v := store.GetString(KeyEmbedModel); v != "" {
			c.Gemini.EmbedModel = v
		}
	}
	if c.Search.APIKey == "" {
		c.Search.APIKey = store.GetString(KeySearchAPIKey)
	}
	if c.Search.EngineID == "" {
		c.Search.EngineID = store.GetString(KeySearchEngineID)
	}
	if os.Getenv("BRIGHTQUERY_DEEP_FETCH") == "" {
		if _, ok := store.Get(KeyDeepFetch); ok {
			c.Search.DeepFetch = store.GetBool(KeyDeepFetch)
		}
	}
	if os.Getenv("BRIGHTQUERY_SAVE_HISTORY") == "" {
		if _, ok := store.Get(KeySaveHistory); ok {
			c.App.SaveHistory = store.GetBool(KeySaveHistory)
		}
	}
}

// HasGemini returns true if the Gemini capability is configured.
func (c *Config) HasGemini() bool {
	return c.Gemini.APIKey != ""
}

// HasSearch returns true if the web search capability is configured.
func (c *Config) HasSearch() bool {
	return c.Search.APIKey != "" && c.Search.EngineID != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean for %s: %q, using default", key, v)
		return fallback
	}
	return b
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("invalid duration for %s: %q, using default", key, v)
		return fallback
	}
	return d
}
