package driven

import (
	"context"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

// QueryFilter narrows a similarity query within a collection.
type QueryFilter struct {
	// PathPrefix restricts hits to documents whose path starts with it.
	PathPrefix string
}

// VectorStore is the durable, queryable persistence for documents,
// chunks and vectors. It is the single source of truth for what has
// been indexed; the indexer never caches hashes itself.
//
// Writes are serialized per collection (single-writer, multi-reader);
// reads never block each other.
type VectorStore interface {
	// UpsertDocument inserts or updates document metadata keyed on
	// (collection, path) and returns the stable document ID. When the
	// stored hash equals the incoming one, only the updated-at
	// timestamp is refreshed.
	UpsertDocument(ctx context.Context, doc domain.Document) (string, error)

	// ReplaceChunks atomically deletes all existing chunks for the
	// document and inserts the new set in one transaction. Concurrent
	// readers observe either the full old set or the full new set,
	// never a mix. A dimensionality mismatch fails before any write.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// DeleteDocument removes the document and cascades to its chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// Query returns at most k chunks of the collection ordered by
	// descending similarity to the query vector, ties broken by chunk
	// insertion order. An empty collection yields an empty slice.
	Query(ctx context.Context, collection string, vector []float32, k int, filter *QueryFilter) ([]domain.SearchResult, error)

	// ListDocuments returns all documents recorded for a collection.
	ListDocuments(ctx context.Context, collection string) ([]domain.Document, error)

	// GetDocumentByPath retrieves a document by its corpus path.
	GetDocumentByPath(ctx context.Context, collection, path string) (*domain.Document, error)

	// GetChunks retrieves a document's chunks in ordinal order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListCollections returns the names of all known collections.
	ListCollections(ctx context.Context) ([]string, error)

	// Dimensions returns the store's fixed vector dimensionality.
	Dimensions() int

	// Close releases resources.
	Close() error
}
