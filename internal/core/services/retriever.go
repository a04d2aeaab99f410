package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// searchQualifier biases results towards service descriptions and reviews.
const searchQualifier = "services reviews official site"

// maxSearchResults caps how many snippets a single turn retrieves.
const maxSearchResults = 5

// SnippetRetriever fetches web search snippets for a company/service pair
// and maps them into snippet documents. Absence of results is never an
// error: missing credentials, zero hits, and provider faults all degrade
// to an empty document set.
type SnippetRetriever struct {
	searcher driven.WebSearcher
	fetcher  driven.PageFetcher

	timeout      time.Duration
	fetchTimeout time.Duration
	deepFetch    bool
}

// RetrieverOption configures a SnippetRetriever.
type RetrieverOption func(*SnippetRetriever)

// WithDeepFetch enables full-page retrieval: each result's snippet is
// replaced with the fetched page text when the fetch succeeds.
func WithDeepFetch(fetcher driven.PageFetcher, timeout time.Duration) RetrieverOption {
	return func(r *SnippetRetriever) {
		r.fetcher = fetcher
		r.deepFetch = fetcher != nil
		if timeout > 0 {
			r.fetchTimeout = timeout
		}
	}
}

// NewSnippetRetriever creates a snippet retriever.
// The searcher parameter is optional (can be nil); retrieval then always
// returns an empty document set.
func NewSnippetRetriever(searcher driven.WebSearcher, timeout time.Duration, opts ...RetrieverOption) *SnippetRetriever {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &SnippetRetriever{
		searcher:     searcher,
		timeout:      timeout,
		fetchTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve runs one web search for the company and keywords and returns
// the results as snippet documents, newly constructed on each call.
func (r *SnippetRetriever) Retrieve(ctx context.Context, company, keywords string) []domain.SnippetDocument {
	logger.Section("Snippet Retrieval")

	if r.searcher == nil {
		logger.Debug("Web search not configured, returning no documents")
		return nil
	}

	query := fmt.Sprintf("%s %s %s", company, keywords, searchQualifier)
	logger.Debug("Search query: %q", query)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.searcher.Search(ctx, query, maxSearchResults)
	if err != nil {
		logger.Warn("Web search failed: %v", err)
		return nil
	}
	logger.Info("Search returned %d results", len(items))

	docs := make([]domain.SnippetDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, domain.SnippetDocument{
			Content:     fallback(item.Snippet, domain.NoSnippet),
			SourceURL:   fallback(item.Link, domain.NoLink),
			Title:       fallback(item.Title, domain.NoTitle),
			Company:     company,
			OriginQuery: query,
		})
	}

	if r.deepFetch {
		r.enrichWithPageText(ctx, docs)
	}

	return docs
}

// enrichWithPageText replaces each document's snippet with the full page
// text where the fetch succeeds. Fetch faults keep the snippet.
func (r *SnippetRetriever) enrichWithPageText(ctx context.Context, docs []domain.SnippetDocument) {
	for i := range docs {
		if docs[i].SourceURL == domain.NoLink {
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		text, err := r.fetcher.FetchText(fetchCtx, docs[i].SourceURL)
		cancel()

		if err != nil {
			logger.Warn("Page fetch failed for %s: %v (keeping snippet)", docs[i].SourceURL, err)
			continue
		}
		if text == "" {
			continue
		}
		logger.Debug("Fetched %d characters from %s", len(text), docs[i].SourceURL)
		docs[i].Content = text
	}
}

func fallback(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
