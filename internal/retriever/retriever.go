package retriever

import (
	"context"
	"fmt"

	"ragchat/internal/domain"
)

// VectorRetriever answers a query by embedding it and asking the vector
// store for the nearest chunks. No re-ranking happens here.
type VectorRetriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	topK     int
}

func New(embedder domain.Embedder, store domain.VectorStore, topK int) *VectorRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &VectorRetriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns up to topK supporting chunks, best match first.
// A topK of zero falls back to the configured default.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = r.topK
	}
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
