// Package memory provides a transient in-memory vector index.
// An index holds one turn's document vectors and is discarded with the
// turn; it is deliberately not persistable, keeping answer relevance
// scoped to the current query's evidence set.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	docID     string
	embedding []float32
}

// Index is an exact cosine-similarity index over a small vector set.
// Brute force is fine at per-turn document counts (at most a handful).
type Index struct {
	mu      sync.RWMutex
	entries []entry
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Add inserts a vector for the given document ID. Insertion order is
// retained and used to break similarity ties.
func (i *Index) Add(_ context.Context, docID string, embedding []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	i.entries = append(i.entries, entry{docID: docID, embedding: vec})
	return nil
}

// Search returns the k nearest neighbours to the query vector by cosine
// similarity. The sort is stable on descending score, so equally similar
// documents keep their insertion order.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(i.entries))
	for _, e := range i.entries {
		hits = append(hits, driven.VectorHit{
			DocID:      e.docID,
			Similarity: cosineSimilarity(query, e.embedding),
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Close releases resources. The index is garbage collected; nothing to do.
func (i *Index) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched dimensions or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
