package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.Retriever = (*Retriever)(nil)

// Retriever answers semantic queries by embedding the query text and
// ranking stored chunks by cosine similarity.
type Retriever struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	settings domain.SearchSettings
}

// NewRetriever creates a new retriever service.
func NewRetriever(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	settings domain.SearchSettings,
) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		settings: settings.WithDefaults(),
	}
}

// Search embeds the query and returns the k most similar chunks of the
// collection. k == 0 uses the configured default; negative k is
// rejected; k above the maximum is clamped. Searching a collection
// that was never indexed returns an empty result.
func (s *Retriever) Search(ctx context.Context, collection, query string, k int) ([]domain.SearchResult, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: k must not be negative", domain.ErrInvalidInput)
	}
	if k == 0 {
		k = s.settings.DefaultK
	}
	if k > s.settings.MaxK {
		logger.Debug("Clamping k from %d to %d", k, s.settings.MaxK)
		k = s.settings.MaxK
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	vecs, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d embeddings for one query", domain.ErrEmbedding, len(vecs))
	}

	results, err := s.store.Query(ctx, collection, vecs[0], k, nil)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	logger.Debug("Search %q in %s: %d results", query, collection, len(results))
	return results, nil
}
