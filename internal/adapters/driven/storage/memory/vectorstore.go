// Package memory provides in-memory implementations of driven port
// interfaces for testing and ephemeral use. Data is not persisted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory vector store with the same observable
// semantics as the SQLite adapter: (collection, path) keyed upserts,
// atomic chunk replacement and deterministic cosine ranking.
type VectorStore struct {
	mu   sync.RWMutex
	dims int

	docs    map[string]*domain.Document // by ID
	chunks  map[string][]domain.Chunk   // by document ID, ordinal order
	seq     map[string]int64            // insertion sequence by chunk ID
	nextSeq int64
}

// NewVectorStore creates an empty in-memory store for the given
// dimensionality.
func NewVectorStore(dims int) *VectorStore {
	return &VectorStore{
		dims:   dims,
		docs:   make(map[string]*domain.Document),
		chunks: make(map[string][]domain.Chunk),
		seq:    make(map[string]int64),
	}
}

// UpsertDocument inserts or updates a document keyed on (collection, path).
func (s *VectorStore) UpsertDocument(_ context.Context, doc domain.Document) (string, error) {
	if doc.Collection == "" || doc.Path == "" {
		return "", fmt.Errorf("%w: document requires collection and path", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for _, existing := range s.docs {
		if existing.Collection == doc.Collection && existing.Path == doc.Path {
			if existing.ContentHash != doc.ContentHash {
				existing.ContentHash = doc.ContentHash
				existing.Size = doc.Size
				existing.ModTime = doc.ModTime
			}
			existing.UpdatedAt = now
			return existing.ID, nil
		}
	}

	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now
	s.docs[id] = &doc
	return id, nil
}

// ReplaceChunks swaps the full chunk set for a document.
func (s *VectorStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[documentID]; !ok {
		return domain.ErrNotFound
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dims {
			return fmt.Errorf("%w: chunk %d has %d dimensions, index requires %d",
				domain.ErrStore, chunk.Position, len(chunk.Embedding), s.dims)
		}
	}

	for _, old := range s.chunks[documentID] {
		delete(s.seq, old.ID)
	}

	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	sort.Slice(stored, func(i, j int) bool { return stored[i].Position < stored[j].Position })

	for i := range stored {
		if stored[i].ID == "" {
			stored[i].ID = uuid.New().String()
		}
		stored[i].DocumentID = documentID
		s.nextSeq++
		s.seq[stored[i].ID] = s.nextSeq
	}
	s.chunks[documentID] = stored
	return nil
}

// DeleteDocument removes the document and its chunks.
func (s *VectorStore) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	for _, chunk := range s.chunks[documentID] {
		delete(s.seq, chunk.ID)
	}
	delete(s.docs, documentID)
	delete(s.chunks, documentID)
	return nil
}

// Query ranks all embedded chunks of the collection by cosine similarity.
func (s *VectorStore) Query(_ context.Context, collection string, vector []float32, k int, filter *driven.QueryFilter) ([]domain.SearchResult, error) {
	if len(vector) != s.dims {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index requires %d",
			domain.ErrStore, len(vector), s.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		seq    int64
		result domain.SearchResult
	}

	var hits []scored
	for docID, doc := range s.docs {
		if doc.Collection != collection {
			continue
		}
		if filter != nil && filter.PathPrefix != "" && !strings.HasPrefix(doc.Path, filter.PathPrefix) {
			continue
		}
		for _, chunk := range s.chunks[docID] {
			hits = append(hits, scored{
				seq: s.seq[chunk.ID],
				result: domain.SearchResult{
					Collection:   collection,
					DocumentPath: doc.Path,
					Chunk:        chunk,
					Score:        cosine(vector, chunk.Embedding),
				},
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].result.Score != hits[j].result.Score {
			return hits[i].result.Score > hits[j].result.Score
		}
		return hits[i].seq < hits[j].seq
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results, nil
}

// ListDocuments returns all documents of a collection ordered by path.
func (s *VectorStore) ListDocuments(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.docs {
		if doc.Collection == collection {
			docs = append(docs, *doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// GetDocumentByPath retrieves a document by its corpus path.
func (s *VectorStore) GetDocumentByPath(_ context.Context, collection, path string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.Collection == collection && doc.Path == path {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves a document's chunks in ordinal order.
func (s *VectorStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(chunks, s.chunks[documentID])
	return chunks, nil
}

// ListCollections returns the names of all known collections.
func (s *VectorStore) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]bool)
	for _, doc := range s.docs {
		set[doc.Collection] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Dimensions returns the store's fixed vector dimensionality.
func (s *VectorStore) Dimensions() int {
	return s.dims
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
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
