package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [collection] [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("search", "laravel")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	svcs.retriever.results = []domain.SearchResult{
		{
			DocumentPath: "routing.md",
			Chunk:        domain.Chunk{Position: 1, Content: "Routes are defined in route files."},
			Score:        0.87,
		},
	}

	output, err := executeCommand("search", "laravel", "how do routes work")
	require.NoError(t, err)

	assert.Contains(t, output, "routing.md")
	assert.Contains(t, output, "0.870")
	assert.Contains(t, output, "Routes are defined")

	assert.Equal(t, "laravel", svcs.retriever.gotCollection)
	assert.Equal(t, "how do routes work", svcs.retriever.gotQuery)
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("search", "laravel", "queues", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, svcs.retriever.gotK)
}

func TestSearchCmd_RejectsExplicitZeroLimit(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("search", "laravel", "queues", "-n", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, svcs.retriever.gotQuery)

	_, err = executeCommand("search", "laravel", "queues", "-n=-2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	svcs.retriever.results = []domain.SearchResult{
		{
			DocumentPath: "queues.md",
			Chunk:        domain.Chunk{Position: 0, Content: "Queues defer slow work."},
			Score:        0.9,
		},
	}

	output, err := executeCommand("search", "laravel", "queues", "--json")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "queues.md", results[0]["path"])
	assert.Equal(t, 0.9, results[0]["score"])
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	output, err := executeCommand("search", "laravel", "nothing matches")
	require.NoError(t, err)
	assert.Contains(t, output, "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	svcs.retriever.err = domain.ErrEmbeddingUnavailable

	_, err := executeCommand("search", "laravel", "queues")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "one two", snippet("one\ntwo", 10))

	long := snippet("aaaaaaaaaaaa", 5)
	assert.Equal(t, "aaaaa…", long)
}
