package domain

// Placeholder values for search results with missing fields.
const (
	NoTitle   = "No Title"
	NoSnippet = "No Snippet"
	NoLink    = "No Link"
)

// SnippetDocument is a search result snippet used as grounding evidence.
// Documents are immutable, scoped to a single turn, and discarded once
// the turn's answer is produced.
type SnippetDocument struct {
	// Content is the snippet text returned by the search provider.
	Content string

	// SourceURL is the result link.
	SourceURL string

	// Title is the result title.
	Title string

	// Company is the company the originating search was about.
	Company string

	// OriginQuery is the full query string sent to the provider.
	OriginQuery string
}
