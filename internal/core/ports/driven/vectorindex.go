package driven

import "context"

// VectorIndex provides similarity search over a small, transient set of
// vectors. An index is built fresh for each turn from that turn's snippet
// documents only and discarded with the turn - it must never carry vectors
// across turns.
type VectorIndex interface {
	// Add inserts a vector for the given document ID.
	Add(ctx context.Context, docID string, embedding []float32) error

	// Search finds the k nearest neighbours to the query vector.
	// Ties are broken by insertion order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// DocID is the matched document.
	DocID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
