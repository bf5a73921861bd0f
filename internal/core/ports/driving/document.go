package driving

import (
	"context"
	"time"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

// DocumentService provides read access to indexed documents.
type DocumentService interface {
	// Get retrieves a document by collection and corpus path.
	Get(ctx context.Context, collection, path string) (*domain.Document, error)

	// GetContent returns the document text reassembled from its chunks
	// in ordinal order.
	GetContent(ctx context.Context, collection, path string) (string, error)

	// GetDetails returns document metadata for display.
	GetDetails(ctx context.Context, collection, path string) (*DocumentDetails, error)

	// ListByCollection returns all documents in a collection.
	ListByCollection(ctx context.Context, collection string) ([]domain.Document, error)

	// ListCollections returns all known collection names.
	ListCollections(ctx context.Context) ([]string, error)
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Collection is the owning namespace.
	Collection string

	// Path is the corpus path.
	Path string

	// ContentHash is the recorded content digest.
	ContentHash string

	// ChunkCount is the number of chunks.
	ChunkCount int

	// Size is the recorded file size in bytes.
	Size int64

	// ModTime is the recorded file modification time.
	ModTime time.Time

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}
