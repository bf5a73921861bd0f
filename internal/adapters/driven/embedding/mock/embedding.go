// Package mock provides a deterministic offline embedding service.
// Vectors are built by feature-hashing lowercased word tokens into a
// fixed number of buckets and normalizing to unit length, so texts
// sharing vocabulary score higher under cosine similarity. The same
// text always yields the same vector, which makes indexing and search
// fully reproducible without a model server.
package mock

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
)

// DefaultDimensions matches the compact vector size of small
// sentence-embedding models.
const DefaultDimensions = 384

// EmbeddingService is the deterministic mock embedder.
type EmbeddingService struct {
	dimensions int
}

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// NewEmbeddingService creates a mock embedder with the given
// dimensionality. Non-positive values fall back to the default.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns a unit-length bag-of-words vector for the text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	emb := make([]float32, s.dimensions)

	for _, word := range splitWords(text) {
		h := hashString(word)
		emb[h%s.dimensions] += 1
		// A second bucket per token reduces collisions at small
		// dimensionalities.
		emb[(h/7)%s.dimensions] += 0.5
	}

	var sum float64
	for _, v := range emb {
		sum += float64(v * v)
	}
	if sum > 0 {
		norm := 1.0 / math.Sqrt(sum)
		for i := range emb {
			emb[i] *= float32(norm)
		}
	}
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName identifies the mock model.
func (s *EmbeddingService) ModelName() string {
	return "mock-hash"
}

// Ping always succeeds; the mock has no remote dependency.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}

// splitWords lowercases the text and splits it into alphanumeric runs.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// hashString returns a deterministic non-negative hash of s.
func hashString(s string) int {
	var h uint32
	for _, c := range s {
		h = 31*h + uint32(c)
	}
	return int(h)
}
