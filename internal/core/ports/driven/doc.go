// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): completion, embedding, web search, page
// fetching, the ephemeral vector index, and conversation persistence.
package driven
