// Package googlecse provides a web search adapter using the Google
// Programmable Search Engine (Custom Search) API.
package googlecse

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
)

// Ensure Searcher implements the interface.
var _ driven.WebSearcher = (*Searcher)(nil)

// Default rate limit. The free Custom Search tier allows 100 queries per
// day; one query per second with a small burst keeps well inside the
// per-second quota.
const (
	DefaultQueriesPerSecond = 1.0
	DefaultBurstSize        = 3

	// maxResultsPerRequest is the API's hard cap on num.
	maxResultsPerRequest = 10
)

// Config holds configuration for the Programmable Search adapter.
type Config struct {
	// APIKey is the Google API key authorised for Custom Search (required).
	APIKey string

	// EngineID is the Programmable Search engine identifier (required).
	EngineID string

	// QueriesPerSecond is the sustained request rate (default: 1/s).
	QueriesPerSecond float64

	// BurstSize is the maximum request burst (default: 3).
	BurstSize int
}

// Searcher issues queries against the Custom Search JSON API.
type Searcher struct {
	service  *customsearch.Service
	engineID string
	limiter  *rate.Limiter
}

// New creates a new Programmable Search adapter.
func New(ctx context.Context, cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("googlecse: API key is required")
	}
	if cfg.EngineID == "" {
		return nil, fmt.Errorf("googlecse: engine ID is required")
	}
	if cfg.QueriesPerSecond <= 0 {
		cfg.QueriesPerSecond = DefaultQueriesPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("googlecse: create service: %w", err)
	}

	return &Searcher{
		service:  service,
		engineID: cfg.EngineID,
		limiter:  rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), cfg.BurstSize),
	}, nil
}

// Search runs one query and returns at most limit results in provider
// order. Result fields may be empty when the provider omits them.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]driven.SearchItem, error) {
	if limit <= 0 || limit > maxResultsPerRequest {
		limit = maxResultsPerRequest
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("googlecse: rate limit wait: %w", err)
	}

	resp, err := s.service.Cse.List().
		Q(query).
		Cx(s.engineID).
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("googlecse: search: %w", err)
	}

	items := make([]driven.SearchItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, driven.SearchItem{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return items, nil
}

// Close releases resources.
func (s *Searcher) Close() error {
	return nil
}
