package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and form the
// error taxonomy surfaced at the tool boundary.
var (
	// ErrNotFound indicates a requested document or collection does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as a non-positive result count.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates an unreadable corpus file or other filesystem failure.
	// During reconciliation it is downgraded to a per-file warning.
	ErrIO = errors.New("io failure")

	// ErrEmbedding indicates the embedding model is unavailable or
	// rejected a batch. Batches fail whole; there is no partial success.
	ErrEmbedding = errors.New("embedding failure")

	// ErrStore indicates a vector store failure: a failed transaction,
	// a dimensionality mismatch, or an incompatible on-disk schema.
	ErrStore = errors.New("store failure")

	// ErrReindexInProgress indicates a reconciliation pass is already
	// running for the collection. Writes are single-writer per collection.
	ErrReindexInProgress = errors.New("reindex already in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and semantic search require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
