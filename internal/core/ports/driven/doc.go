// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorStore: durable document/chunk/vector persistence and query
//   - EmbeddingService: text to fixed-length vector conversion
//   - Chunker: document text to bounded chunk texts
//   - CorpusWalker: corpus enumeration with content hashing
//   - ConfigStore: application configuration
package driven
