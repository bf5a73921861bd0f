package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides read access to indexed documents.
type DocumentService struct {
	store driven.VectorStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.VectorStore) *DocumentService {
	return &DocumentService{store: store}
}

// Get retrieves a document by collection and corpus path.
func (s *DocumentService) Get(ctx context.Context, collection, path string) (*domain.Document, error) {
	if collection == "" || path == "" {
		return nil, fmt.Errorf("%w: collection and path are required", domain.ErrInvalidInput)
	}
	return s.store.GetDocumentByPath(ctx, collection, path)
}

// GetContent returns the document text reassembled from its chunks in
// ordinal order. Chunks carry their separators, so concatenation
// restores the indexed text up to chunk overlap.
func (s *DocumentService) GetContent(ctx context.Context, collection, path string) (string, error) {
	doc, err := s.Get(ctx, collection, path)
	if err != nil {
		return "", err
	}

	chunks, err := s.store.GetChunks(ctx, doc.ID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}

	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
	}
	return b.String(), nil
}

// GetDetails returns document metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, collection, path string) (*driving.DocumentDetails, error) {
	doc, err := s.Get(ctx, collection, path)
	if err != nil {
		return nil, err
	}

	chunks, err := s.store.GetChunks(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	return &driving.DocumentDetails{
		ID:          doc.ID,
		Collection:  doc.Collection,
		Path:        doc.Path,
		ContentHash: doc.ContentHash,
		ChunkCount:  len(chunks),
		Size:        doc.Size,
		ModTime:     doc.ModTime,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// ListByCollection returns all documents in a collection.
func (s *DocumentService) ListByCollection(ctx context.Context, collection string) ([]domain.Document, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection is required", domain.ErrInvalidInput)
	}
	return s.store.ListDocuments(ctx, collection)
}

// ListCollections returns all known collection names.
func (s *DocumentService) ListCollections(ctx context.Context) ([]string, error) {
	return s.store.ListCollections(ctx)
}
