package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
)

// decodeToolError asserts the result carries a typed error payload.
func decodeToolError(t *testing.T, result *mcp.CallToolResult) errorPayload {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var payload errorPayload
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked results", func(t *testing.T) {
		retriever := &mockRetriever{
			results: []domain.SearchResult{
				{
					Collection:   "laravel",
					DocumentPath: "routing.md",
					Chunk:        domain.Chunk{Position: 2, Content: "Routes are defined in route files."},
					Score:        0.95,
				},
			},
		}

		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		input := SearchInput{Collection: "laravel", Query: "routing", K: 5}
		result, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "routing.md", output.Results[0].Path)
		assert.Equal(t, 2, output.Results[0].Position)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, "Routes are defined in route files.", output.Results[0].Content)

		assert.Equal(t, "laravel", retriever.gotCollection)
		assert.Equal(t, "routing", retriever.gotQuery)
		assert.Equal(t, 5, retriever.gotK)
	})

	t.Run("missing collection is a validation error", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}})
		require.NoError(t, err)

		result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "routing"})
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "validation", payload.Kind)
		assert.Contains(t, payload.Message, "collection")
	})

	t.Run("missing query is a validation error", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}})
		require.NoError(t, err)

		result, _, err := server.handleSearch(ctx, nil, SearchInput{Collection: "laravel", Query: "  "})
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "validation", payload.Kind)
	})

	t.Run("service errors carry their kind", func(t *testing.T) {
		retriever := &mockRetriever{
			err: fmt.Errorf("%w: embedding model offline", domain.ErrEmbeddingUnavailable),
		}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		result, _, err := server.handleSearch(ctx, nil, SearchInput{Collection: "laravel", Query: "routing"})
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "embedding", payload.Kind)
		assert.Contains(t, payload.Message, "offline")
	})
}

func TestServer_handleReindex(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reconciliation report", func(t *testing.T) {
		indexer := &mockIndexer{
			report: &driving.ReconcileReport{
				Collection: "laravel",
				Indexed:    3,
				Deleted:    1,
				Unchanged:  7,
				Warnings:   []string{"hidden.md: permission denied"},
				Failures: []driving.DocumentFailure{
					{Path: "bad.md", Err: fmt.Errorf("%w: model refused", domain.ErrEmbedding)},
				},
			},
		}

		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Indexer: indexer})
		require.NoError(t, err)

		input := ReindexInput{Collection: "laravel", Path: "/docs/laravel"}
		result, output, err := server.handleReindex(ctx, nil, input)

		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, "laravel", output.Collection)
		assert.Equal(t, 3, output.Indexed)
		assert.Equal(t, 1, output.Deleted)
		assert.Equal(t, 7, output.Unchanged)
		require.Len(t, output.Failures, 1)
		assert.Equal(t, "bad.md", output.Failures[0].Path)
		assert.Contains(t, output.Failures[0].Error, "model refused")

		assert.Equal(t, "laravel", indexer.gotCollection)
		assert.Equal(t, "/docs/laravel", indexer.gotRoot)
	})

	t.Run("missing path is a validation error", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Indexer: &mockIndexer{}})
		require.NoError(t, err)

		result, _, err := server.handleReindex(ctx, nil, ReindexInput{Collection: "laravel"})
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "validation", payload.Kind)
	})

	t.Run("concurrent pass maps to conflict", func(t *testing.T) {
		indexer := &mockIndexer{
			err: fmt.Errorf("%w: collection laravel", domain.ErrReindexInProgress),
		}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Indexer: indexer})
		require.NoError(t, err)

		input := ReindexInput{Collection: "laravel", Path: "/docs/laravel"}
		result, _, err := server.handleReindex(ctx, nil, input)
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "conflict", payload.Kind)
	})
}

func TestServer_handleGetDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("returns metadata and content", func(t *testing.T) {
		modTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		docs := &mockDocumentService{
			details: &driving.DocumentDetails{
				Collection:  "laravel",
				Path:        "queues.md",
				ContentHash: "abc123",
				Size:        512,
				ModTime:     modTime,
				ChunkCount:  4,
			},
			content: "Queues defer time consuming tasks.",
		}

		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Document: docs})
		require.NoError(t, err)

		input := GetDocumentInput{Collection: "laravel", Path: "queues.md"}
		result, output, err := server.handleGetDocument(ctx, nil, input)

		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, "queues.md", output.Path)
		assert.Equal(t, "abc123", output.ContentHash)
		assert.Equal(t, int64(512), output.Size)
		assert.Equal(t, modTime, output.ModTime)
		assert.Equal(t, 4, output.ChunkCount)
		assert.Equal(t, "Queues defer time consuming tasks.", output.Content)
	})

	t.Run("unknown document maps to not_found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Document: docs})
		require.NoError(t, err)

		input := GetDocumentInput{Collection: "laravel", Path: "missing.md"}
		result, _, err := server.handleGetDocument(ctx, nil, input)
		require.NoError(t, err)

		payload := decodeToolError(t, result)
		assert.Equal(t, "not_found", payload.Kind)
	})

	t.Run("missing arguments are validation errors", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Document: &mockDocumentService{}})
		require.NoError(t, err)

		result, _, err := server.handleGetDocument(ctx, nil, GetDocumentInput{Path: "queues.md"})
		require.NoError(t, err)
		assert.Equal(t, "validation", decodeToolError(t, result).Kind)

		result, _, err = server.handleGetDocument(ctx, nil, GetDocumentInput{Collection: "laravel"})
		require.NoError(t, err)
		assert.Equal(t, "validation", decodeToolError(t, result).Kind)
	})
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"not found", domain.ErrNotFound, "not_found"},
		{"validation", domain.ErrInvalidInput, "validation"},
		{"conflict", domain.ErrReindexInProgress, "conflict"},
		{"embedding", domain.ErrEmbedding, "embedding"},
		{"embedding unavailable", domain.ErrEmbeddingUnavailable, "embedding"},
		{"io", domain.ErrIO, "io"},
		{"store", domain.ErrStore, "store"},
		{"wrapped", fmt.Errorf("query store: %w", domain.ErrStore), "store"},
		{"unknown", fmt.Errorf("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorKind(tt.err))
		})
	}
}
