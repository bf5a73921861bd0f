// Package mcp provides a Model Context Protocol server adapter for the
// documentation index. It exposes indexing and retrieval as typed tools and
// read-only resources so AI assistants can search the corpus.
package mcp

import (
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

// ErrMissingRetriever is returned when the retriever service is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever service is required")

// errorPayload is the typed error object returned to tool callers.
type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorKind maps a domain error to its wire kind.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrReindexInProgress):
		return "conflict"
	case errors.Is(err, domain.ErrEmbedding), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return "embedding"
	case errors.Is(err, domain.ErrIO):
		return "io"
	case errors.Is(err, domain.ErrStore):
		return "store"
	default:
		return "internal"
	}
}

// failure renders a service error as a typed {kind, message} tool result.
// Errors are data for the calling model, never transport failures.
func failure[Out any](err error) (*mcp.CallToolResult, Out, error) {
	var zero Out

	data, marshalErr := json.Marshal(errorPayload{
		Kind:    errorKind(err),
		Message: err.Error(),
	})
	if marshalErr != nil {
		return nil, zero, marshalErr
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, zero, nil
}
