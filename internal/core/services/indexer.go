package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driven"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// Indexer reconciles corpus file trees with the vector store.
// The store is the single source of truth for indexed state; each pass
// diffs a fresh corpus walk against it and applies the minimal set of
// updates.
type Indexer struct {
	walker   driven.CorpusWalker
	store    driven.VectorStore
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	settings domain.IndexSettings

	// Status tracking
	mu     sync.RWMutex
	active map[string]*driving.ReconcileStatus
}

// NewIndexer creates a new indexer service.
func NewIndexer(
	walker driven.CorpusWalker,
	store driven.VectorStore,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	settings domain.IndexSettings,
) *Indexer {
	return &Indexer{
		walker:   walker,
		store:    store,
		chunker:  chunker,
		embedder: embedder,
		settings: settings.WithDefaults(),
		active:   make(map[string]*driving.ReconcileStatus),
	}
}

// Reconcile diffs the corpus under root against the collection's
// recorded state. New and changed documents are re-chunked, re-embedded
// and written; documents whose hash is unchanged are skipped without a
// single write; documents no longer on disk are deleted. Per-document
// failures are reported, never fatal for the pass. Only one pass may
// run per collection at a time.
func (s *Indexer) Reconcile(ctx context.Context, collection, root string) (*driving.ReconcileReport, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection is required", domain.ErrInvalidInput)
	}
	if root == "" {
		return nil, fmt.Errorf("%w: corpus root is required", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	status, err := s.acquire(collection)
	if err != nil {
		return nil, err
	}
	defer s.release(collection)

	logger.Info("Starting reconciliation for collection %s", collection)

	// 1. Walk the corpus
	files, warnings, err := s.walker.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	// 2. Load recorded state
	stored, err := s.store.ListDocuments(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	storedByPath := make(map[string]domain.Document, len(stored))
	for _, doc := range stored {
		storedByPath[doc.Path] = doc
	}

	report := &driving.ReconcileReport{Collection: collection}
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", w.Path, w.Err))
	}

	// 3. Diff: new or changed files need (re)indexing, matching hashes
	// are skipped entirely.
	var toIndex []driven.CorpusFile
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		seen[file.Path] = true
		if prev, ok := storedByPath[file.Path]; ok && prev.ContentHash == file.Hash {
			report.Unchanged++
			continue
		}
		toIndex = append(toIndex, file)
	}

	// 4. Index new and changed documents with a bounded worker pool.
	// s.mu also guards the status fields read by Status.
	jobs := make(chan driven.CorpusFile)
	var wg sync.WaitGroup

	workers := s.settings.Workers
	if workers > len(toIndex) {
		workers = len(toIndex)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				err := s.indexOne(ctx, collection, root, file)

				s.mu.Lock()
				if err != nil {
					logger.Warn("Failed to index %s: %v", file.Path, err)
					report.Failures = append(report.Failures, driving.DocumentFailure{Path: file.Path, Err: err})
					status.ErrorCount++
				} else {
					report.Indexed++
				}
				status.DocumentsProcessed++
				s.mu.Unlock()
			}
		}()
	}

	dispatch := func() error {
		defer close(jobs)
		for _, file := range toIndex {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- file:
			}
		}
		return nil
	}
	dispatchErr := dispatch()
	wg.Wait()
	if dispatchErr != nil {
		return nil, dispatchErr
	}

	// 5. Delete documents that vanished from the corpus.
	for path, doc := range storedByPath {
		if seen[path] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
			logger.Warn("Failed to delete %s: %v", path, err)
			report.Failures = append(report.Failures, driving.DocumentFailure{Path: path, Err: err})
			continue
		}
		logger.Debug("Deleted: %s", path)
		report.Deleted++
	}

	logger.Info("Reconciliation complete: %d indexed, %d deleted, %d unchanged, %d failures",
		report.Indexed, report.Deleted, report.Unchanged, len(report.Failures))
	return report, nil
}

// Status returns the reconciliation status for a collection.
func (s *Indexer) Status(_ context.Context, collection string) (*driving.ReconcileStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.active[collection]; ok {
		// Return a copy to avoid race conditions
		return &driving.ReconcileStatus{
			Collection:         status.Collection,
			Running:            status.Running,
			DocumentsProcessed: status.DocumentsProcessed,
			ErrorCount:         status.ErrorCount,
		}, nil
	}

	// Not running - return idle status
	return &driving.ReconcileStatus{
		Collection: collection,
		Running:    false,
	}, nil
}

// indexOne runs the chunk, embed, store pipeline for a single file.
func (s *Indexer) indexOne(ctx context.Context, collection, root string, file driven.CorpusFile) error {
	content, err := s.walker.Read(root, file.Path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	logger.Debug("Indexing: %s", file.Path)

	// Whitespace-only files are recorded with zero chunks so the hash
	// still short-circuits the next pass.
	texts := s.chunker.Split(content)

	id, err := s.store.UpsertDocument(ctx, domain.Document{
		Collection:  collection,
		Path:        file.Path,
		ContentHash: file.Hash,
		Size:        file.Size,
		ModTime:     file.ModTime,
	})
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	if len(texts) == 0 {
		if err := s.store.ReplaceChunks(ctx, id, nil); err != nil {
			return fmt.Errorf("clear chunks: %w", err)
		}
		return nil
	}

	embeddings, err := s.embedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: id,
			Position:   i,
			Content:    text,
			Length:     utf8.RuneCountInString(text),
			Embedding:  embeddings[i],
		}
	}

	if err := s.store.ReplaceChunks(ctx, id, chunks); err != nil {
		return fmt.Errorf("replace chunks: %w", err)
	}
	return nil
}

// embedTexts embeds all texts in batches of the configured size.
// A failed batch is retried once at half size before giving up; the
// document fails as a whole if any sub-batch still errors.
func (s *Indexer) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += s.settings.BatchSize {
		end := start + s.settings.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vecs, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, context.Canceled) || len(batch) == 1 {
				return nil, err
			}
			logger.Debug("Batch of %d failed, retrying at half size: %v", len(batch), err)
			vecs, err = s.embedHalves(ctx, batch)
			if err != nil {
				return nil, err
			}
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
				domain.ErrEmbedding, len(vecs), len(batch))
		}
		out = append(out, vecs...)
	}

	return out, nil
}

// embedHalves retries a failed batch as two half-size batches.
func (s *Indexer) embedHalves(ctx context.Context, batch []string) ([][]float32, error) {
	mid := len(batch) / 2

	first, err := s.embedder.EmbedBatch(ctx, batch[:mid])
	if err != nil {
		return nil, err
	}
	second, err := s.embedder.EmbedBatch(ctx, batch[mid:])
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// acquire registers a running pass for the collection, failing if one
// is already in progress.
func (s *Indexer) acquire(collection string) (*driving.ReconcileStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.active[collection]; ok && st.Running {
		return nil, fmt.Errorf("%w: collection %s", domain.ErrReindexInProgress, collection)
	}

	status := &driving.ReconcileStatus{Collection: collection, Running: true}
	s.active[collection] = status
	return status, nil
}

// release clears the running pass for the collection.
func (s *Indexer) release(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, collection)
}
