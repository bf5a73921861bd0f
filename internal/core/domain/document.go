package domain

import "time"

// Document represents a corpus file recorded in the vector store.
// The store is the single source of truth for what has been indexed;
// a document row exists even when the file produced zero chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Collection is the namespace this document belongs to.
	Collection string

	// Path is the stable identifier within the corpus,
	// relative to the corpus root.
	Path string

	// ContentHash is the hex-encoded MD5 digest of the file content.
	// Reconciliation compares it against a freshly computed digest
	// to decide whether the document changed.
	ContentHash string

	// Size is the file size in bytes at indexing time.
	Size int64

	// ModTime is the file modification time at indexing time.
	ModTime time.Time

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents a bounded contiguous span of a document's text.
// It is the atomic unit of embedding and retrieval. Chunks are
// immutable once embedded; a content change replaces the whole set
// for the affected document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Position is the ordinal position within the document.
	// Chunks of one document are retrievable in this order.
	Position int

	// Content is the chunk text. Never empty, never longer than
	// the chunker's configured maximum.
	Content string

	// Length is the content length in runes.
	Length int

	// Embedding is the vector representation. Its dimensionality
	// must match the store's configured dimensionality.
	Embedding []float32
}

// SearchResult represents a single retrieval hit.
type SearchResult struct {
	// Collection is the namespace the hit came from.
	Collection string

	// DocumentPath is the owning document's corpus path.
	DocumentPath string

	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query vector.
	Score float64
}
