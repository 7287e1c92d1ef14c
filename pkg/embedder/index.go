package embedder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"

	"github.com/devgraph-ai/devgraph/pkg/utils"
)

// ScoredID is one nearest-neighbor hit.
type ScoredID struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type indexEntry struct {
	textHash [32]byte
	vector   []float32
}

// Index is an in-memory vector index keyed by artifact id. At most one
// vector is stored per id; upserting unchanged text skips the embedding
// call entirely.
type Index struct {
	client Client

	mu      sync.RWMutex
	entries map[string]*indexEntry
}

// NewIndex creates an empty index backed by the given embedding client.
func NewIndex(client Client) *Index {
	return &Index{
		client:  client,
		entries: make(map[string]*indexEntry),
	}
}

// Upsert computes and stores a vector for the text. Re-upsert with
// identical text is a no-op; changed text replaces the vector.
func (x *Index) Upsert(ctx context.Context, id, text string) error {
	if id == "" {
		return fmt.Errorf("upsert: id cannot be empty")
	}
	hash := sha256.Sum256([]byte(text))

	x.mu.RLock()
	entry, ok := x.entries[id]
	x.mu.RUnlock()
	if ok && entry.textHash == hash {
		return nil
	}

	vector, err := x.client.EmbedSingle(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %q: %w", id, err)
	}

	x.mu.Lock()
	x.entries[id] = &indexEntry{textHash: hash, vector: vector}
	x.mu.Unlock()
	return nil
}

// Search returns up to topK ids ordered by descending cosine similarity
// to the query text. An empty index yields an empty result, not an error.
func (x *Index) Search(ctx context.Context, queryText string, topK int) ([]ScoredID, error) {
	if topK <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	empty := len(x.entries) == 0
	x.mu.RUnlock()
	if empty {
		return nil, nil
	}

	queryVec, err := x.client.EmbedSingle(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	x.mu.RLock()
	scored := make([]ScoredID, 0, len(x.entries))
	for id, entry := range x.entries {
		scored = append(scored, ScoredID{
			ID:    id,
			Score: utils.CosineSimilarity(queryVec, entry.vector),
		})
	}
	x.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Len returns the number of indexed ids.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
