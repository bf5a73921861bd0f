package driving

import (
	"context"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

// Retriever provides ranked semantic search over a collection.
type Retriever interface {
	// Search embeds the query and returns the k most similar chunks.
	// k == 0 uses the configured default; negative k is a validation
	// error; k above the configured maximum is clamped. An empty
	// collection yields an empty result, not an error.
	Search(ctx context.Context, collection, query string, k int) ([]domain.SearchResult, error)
}
