package driven

import "context"

// WebSearcher issues queries against an external web search provider.
// This is an optional service - when nil, retrieval degrades to an empty
// document set rather than an error.
type WebSearcher interface {
	// Search runs one query and returns at most limit results in
	// provider order.
	Search(ctx context.Context, query string, limit int) ([]SearchItem, error)

	// Close releases resources.
	Close() error
}

// SearchItem is a single raw result from the search provider.
// Fields may be empty when the provider omits them.
type SearchItem struct {
	// Title is the result title.
	Title string

	// Snippet is the short text excerpt for the result.
	Snippet string

	// Link is the result URL.
	Link string
}
