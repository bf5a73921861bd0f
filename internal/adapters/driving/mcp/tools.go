package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

// SearchInput is the input schema for the search_docs tool.
type SearchInput struct {
	Collection string `json:"collection" jsonschema:"the documentation collection to search"`
	Query      string `json:"query" jsonschema:"natural language query describing what to find"`
	K          int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 20, capped at 100)"`
}

// SearchOutput is the output schema for the search_docs tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path     string  `json:"path"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// ReindexInput is the input schema for the reindex_docs tool.
type ReindexInput struct {
	Collection string `json:"collection" jsonschema:"the collection to reconcile"`
	Path       string `json:"path" jsonschema:"absolute path of the corpus root to index"`
}

// ReindexOutput is the output schema for the reindex_docs tool.
type ReindexOutput struct {
	Collection string          `json:"collection"`
	Indexed    int             `json:"indexed"`
	Deleted    int             `json:"deleted"`
	Unchanged  int             `json:"unchanged"`
	Warnings   []string        `json:"warnings,omitempty"`
	Failures   []FailureOutput `json:"failures,omitempty"`
}

// FailureOutput reports one document that could not be indexed.
type FailureOutput struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	Collection string `json:"collection" jsonschema:"the collection the document belongs to"`
	Path       string `json:"path" jsonschema:"document path relative to the corpus root"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Collection  string    `json:"collection"`
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	ChunkCount  int       `json:"chunk_count"`
	Content     string    `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
// Tools whose backing port is absent are not advertised.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Semantic search over an indexed documentation collection",
	}, s.handleSearch)

	if s.ports.Indexer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex_docs",
			Description: "Reconcile a documentation collection with its corpus directory",
		}, s.handleReindex)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_document",
			Description: "Fetch an indexed document's metadata and assembled content",
		}, s.handleGetDocument)
	}
}

// handleSearch handles the search_docs tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Collection) == "" {
		return failure[SearchOutput](fmt.Errorf("%w: collection is required", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(input.Query) == "" {
		return failure[SearchOutput](fmt.Errorf("%w: query is required", domain.ErrInvalidInput))
	}

	results, err := s.ports.Retriever.Search(ctx, input.Collection, input.Query, input.K)
	if err != nil {
		return failure[SearchOutput](err)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Path:     results[i].DocumentPath,
			Position: results[i].Chunk.Position,
			Score:    results[i].Score,
			Content:  results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleReindex handles the reindex_docs tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	if strings.TrimSpace(input.Collection) == "" {
		return failure[ReindexOutput](fmt.Errorf("%w: collection is required", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(input.Path) == "" {
		return failure[ReindexOutput](fmt.Errorf("%w: path is required", domain.ErrInvalidInput))
	}

	// A pass runs to completion even if the client disconnects, so it
	// never leaves the collection ambiguously half-reconciled.
	report, err := s.ports.Indexer.Reconcile(context.WithoutCancel(ctx), input.Collection, input.Path)
	if err != nil {
		return failure[ReindexOutput](err)
	}

	output := ReindexOutput{
		Collection: report.Collection,
		Indexed:    report.Indexed,
		Deleted:    report.Deleted,
		Unchanged:  report.Unchanged,
		Warnings:   report.Warnings,
	}
	for _, f := range report.Failures {
		output.Failures = append(output.Failures, FailureOutput{Path: f.Path, Error: f.Err.Error()})
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if strings.TrimSpace(input.Collection) == "" {
		return failure[GetDocumentOutput](fmt.Errorf("%w: collection is required", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(input.Path) == "" {
		return failure[GetDocumentOutput](fmt.Errorf("%w: path is required", domain.ErrInvalidInput))
	}

	details, err := s.ports.Document.GetDetails(ctx, input.Collection, input.Path)
	if err != nil {
		return failure[GetDocumentOutput](err)
	}

	content, err := s.ports.Document.GetContent(ctx, input.Collection, input.Path)
	if err != nil {
		return failure[GetDocumentOutput](err)
	}

	return nil, GetDocumentOutput{
		Collection:  details.Collection,
		Path:        details.Path,
		ContentHash: details.ContentHash,
		Size:        details.Size,
		ModTime:     details.ModTime,
		ChunkCount:  details.ChunkCount,
		Content:     content,
	}, nil
}
