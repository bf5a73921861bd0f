package mcp

import (
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers semantic queries.
	Retriever driving.Retriever

	// Indexer reconciles corpus trees into collections.
	Indexer driving.Indexer

	// Document provides read access to indexed documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	// Indexer and Document are optional: a search-only server simply
	// does not advertise their tools and resources.
	return nil
}
