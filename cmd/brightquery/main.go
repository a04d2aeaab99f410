// Command brightquery is a conversational assistant for questions about
// companies and their services. Answers are grounded in fresh web search
// results retrieved per question.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/config/file"
	embeddinggemini "github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/embedding/gemini"
	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/fetch/page"
	llmgemini "github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/llm/gemini"
	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/storage/sqlite"
	vectormemory "github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driven/websearch/googlecse"
	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driving/cli"
	"github.com/brightquery-labs/brightquery-cli/internal/config"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driving"
	"github.com/brightquery-labs/brightquery-cli/internal/core/services"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Stored config fills values the environment left unset.
	var configStore driven.ConfigStore
	if fileStore, err := file.NewConfigStore(cfg.App.DataDir); err != nil {
		logger.Warn("config store unavailable: %v", err)
	} else {
		configStore = fileStore
		cfg.ApplyStore(fileStore)
	}
	cfg.WarnMissing()

	// Driven adapters. A missing credential leaves the adapter nil and
	// the pipeline degrades to fallback replies.
	var completion driven.CompletionService
	var embedder driven.EmbeddingService
	if cfg.HasGemini() {
		completion, err = llmgemini.NewCompletionService(llmgemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.ChatModel,
			Timeout: cfg.Gemini.CompletionTimeout,
		})
		if err != nil {
			return fmt.Errorf("creating completion service: %w", err)
		}
		defer completion.Close()

		embedder, err = embeddinggemini.NewEmbeddingService(embeddinggemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.EmbedModel,
			Timeout: cfg.Gemini.EmbeddingTimeout,
		})
		if err != nil {
			return fmt.Errorf("creating embedding service: %w", err)
		}
		defer embedder.Close()
	}

	var searcher driven.WebSearcher
	if cfg.HasSearch() {
		searcher, err = googlecse.New(context.Background(), googlecse.Config{
			APIKey:   cfg.Search.APIKey,
			EngineID: cfg.Search.EngineID,
		})
		if err != nil {
			return fmt.Errorf("creating search service: %w", err)
		}
		defer searcher.Close()
	}

	var store driven.ConversationStore
	var historyService driving.HistoryService
	if cfg.App.SaveHistory {
		sqliteStore, err := sqlite.NewConversationStore(cfg.App.DataDir)
		if err != nil {
			logger.Warn("history store unavailable, transcripts will not be saved: %v", err)
		} else {
			defer sqliteStore.Close()
			store = sqliteStore
			historyService = services.NewHistoryService(sqliteStore)
		}
	}

	// Core services.
	extractor := services.NewEntityExtractor(completion, cfg.Gemini.CompletionTimeout)

	var retrieverOpts []services.RetrieverOption
	if cfg.Search.DeepFetch {
		fetcher := page.New(page.Config{Timeout: cfg.Search.FetchTimeout})
		defer fetcher.Close()
		retrieverOpts = append(retrieverOpts, services.WithDeepFetch(fetcher, cfg.Search.FetchTimeout))
	}
	retriever := services.NewSnippetRetriever(searcher, cfg.Search.Timeout, retrieverOpts...)

	synthesizer := services.NewAnswerSynthesizer(
		completion,
		embedder,
		func() driven.VectorIndex { return vectormemory.New() },
		cfg.Gemini.CompletionTimeout,
		cfg.Gemini.EmbeddingTimeout,
	)

	orchestrator := services.NewTurnOrchestrator(extractor, retriever, synthesizer, store)

	return cli.Execute(cli.Deps{
		Chat:        orchestrator,
		History:     historyService,
		ConfigStore: configStore,
		Config:      cfg,
		Version:     version,
	})
}
