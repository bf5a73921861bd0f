package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// The engine treats vectors as opaque fixed-dimension arrays; any
// implementation can be swapped without touching indexing or retrieval.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - A deterministic mock for tests and offline use
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// It returns exactly one vector per input, in input order, or an
	// error for the whole batch. There is never partial success:
	// callers retry at a smaller batch granularity on failure.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is fixed at initialisation and must match the store's
	// configured dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	// Used at startup before committing to indexing or search.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
