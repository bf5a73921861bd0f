// Package sqlite provides the SQLite-backed vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Documents, chunks and
// their embeddings live in a single database file; embeddings are stored as
// little-endian float32 blobs and similarity is computed in process at query
// time.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. An index_meta row records the vector dimensionality,
// the similarity metric and the embedding model the index was built with;
// opening the store with incompatible settings fails rather than silently
// mixing vector spaces.
//
// # Data Location
//
// By default, the database is stored at ~/.laravel-docs-mcp/data/index.db
//
// # Thread Safety
//
// Reads rely on SQLite WAL mode and never block each other. Writes are
// serialized per collection so concurrent reconciliation passes against
// different collections do not contend.
package sqlite
