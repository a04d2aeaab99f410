package driven

import "context"

// PageFetcher retrieves the readable text of a web page. Used by deep
// retrieval mode to replace a result's snippet with the full page text.
// This is an optional service - when nil, snippets are used as-is.
type PageFetcher interface {
	// FetchText downloads the page at url and returns its visible text
	// with markup stripped.
	FetchText(ctx context.Context, url string) (string, error)

	// Close releases resources.
	Close() error
}
