package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/clearair/laravel-docs-mcp/internal/adapters/driven/storage/memory"
	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockWalker implements driven.CorpusWalker for testing.
type mockWalker struct {
	files    []driven.CorpusFile
	warnings []driven.WalkWarning
	walkErr  error
	content  map[string]string
	readErr  map[string]error
}

func (m *mockWalker) Walk(_ context.Context, _ string) ([]driven.CorpusFile, []driven.WalkWarning, error) {
	if m.walkErr != nil {
		return nil, nil, m.walkErr
	}
	return m.files, m.warnings, nil
}

func (m *mockWalker) Read(_, path string) (string, error) {
	if err, ok := m.readErr[path]; ok {
		return "", err
	}
	content, ok := m.content[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

// setFile registers a corpus file whose hash tracks its content, so
// tests change a document by just calling setFile again.
func (m *mockWalker) setFile(path, content string) {
	if m.content == nil {
		m.content = make(map[string]string)
	}
	m.content[path] = content
	hash := fmt.Sprintf("%x", fnv32(content))

	for i, f := range m.files {
		if f.Path == path {
			m.files[i].Hash = hash
			return
		}
	}
	m.files = append(m.files, driven.CorpusFile{
		Path: path,
		Hash: hash,
		Size: int64(len(content)),
	})
}

// removeFile drops a file from the walk result.
func (m *mockWalker) removeFile(path string) {
	for i, f := range m.files {
		if f.Path == path {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return
		}
	}
}

// mockChunker implements driven.Chunker for testing. It splits on
// newlines so tests control chunk counts with literal input.
type mockChunker struct{}

func (m *mockChunker) Split(text string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if line := text[start:i]; hasText(line) {
				out = append(out, line)
			}
			start = i + 1
		}
	}
	return out
}

func (m *mockChunker) MaxSize() int {
	return 400
}

func hasText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}

// mockEmbedder implements driven.EmbeddingService for testing. It
// produces deterministic vectors per text; when fixed is set, every
// text embeds to that vector instead.
type mockEmbedder struct {
	mu    sync.Mutex
	dims  int
	fixed []float32

	batchErr  error           // fail every batch
	failOver  int             // if > 0, fail batches larger than this
	failTexts map[string]bool // fail batches containing these texts

	started chan struct{} // closed on first batch, if set
	release chan struct{} // blocks each batch until closed, if set

	calls [][]string
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, texts)
	if m.started != nil {
		select {
		case <-m.started:
		default:
			close(m.started)
		}
	}
	m.mu.Unlock()

	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	if m.failOver > 0 && len(texts) > m.failOver {
		return nil, fmt.Errorf("%w: batch too large", domain.ErrEmbedding)
	}
	for _, text := range texts {
		if m.failTexts[text] {
			return nil, fmt.Errorf("%w: refusing %q", domain.ErrEmbedding, text)
		}
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if m.fixed != nil {
			out[i] = m.fixed
			continue
		}
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	seed := fnv32(text)
	vec := make([]float32, m.dims)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000) / 1000
	}
	return vec
}

func (m *mockEmbedder) Dimensions() int { return m.dims }

func (m *mockEmbedder) ModelName() string { return "mock" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// batchSizes returns the length of each recorded batch, in call order.
func (m *mockEmbedder) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	sizes := make([]int, len(m.calls))
	for i, call := range m.calls {
		sizes[i] = len(call)
	}
	return sizes
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// countingStore wraps the in-memory store and counts write operations,
// so tests can assert that unchanged passes perform zero writes.
type countingStore struct {
	*memory.VectorStore

	mu       sync.Mutex
	upserts  int
	replaces int
	deletes  int
}

func newCountingStore(dims int) *countingStore {
	return &countingStore{VectorStore: memory.NewVectorStore(dims)}
}

func (s *countingStore) UpsertDocument(ctx context.Context, doc domain.Document) (string, error) {
	s.mu.Lock()
	s.upserts++
	s.mu.Unlock()
	return s.VectorStore.UpsertDocument(ctx, doc)
}

func (s *countingStore) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	s.replaces++
	s.mu.Unlock()
	return s.VectorStore.ReplaceChunks(ctx, documentID, chunks)
}

func (s *countingStore) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	s.deletes++
	s.mu.Unlock()
	return s.VectorStore.DeleteDocument(ctx, documentID)
}

func (s *countingStore) writes() (upserts, replaces, deletes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts, s.replaces, s.deletes
}

func (s *countingStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts, s.replaces, s.deletes = 0, 0, 0
}
