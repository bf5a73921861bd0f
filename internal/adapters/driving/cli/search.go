package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [collection] [query]",
	Short: "Search an indexed collection",
	Long: `Embeds the query and returns the most semantically similar chunks
from the collection, ranked by cosine similarity.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default 20)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	collection, query := args[0], args[1]

	// An omitted flag means the service default; an explicit zero or
	// negative limit is a caller mistake.
	if cmd.Flags().Changed("limit") && searchLimit <= 0 {
		return fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}

	results, err := retrieverService.Search(cmd.Context(), collection, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	type jsonResult struct {
		Path     string  `json:"path"`
		Position int     `json:"position"`
		Score    float64 `json:"score"`
		Content  string  `json:"content"`
	}

	out := make([]jsonResult, len(results))
	for i := range results {
		out[i] = jsonResult{
			Path:     results[i].DocumentPath,
			Position: results[i].Chunk.Position,
			Score:    results[i].Score,
			Content:  results[i].Chunk.Content,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, results[i].DocumentPath, results[i].Chunk.Position, results[i].Score)
		cmd.Printf("      %s\n", snippet(results[i].Chunk.Content, 200))
		cmd.Println()
	}
	return nil
}

// snippet truncates content to at most n runes on a single line.
func snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) > n {
		runes = append(runes[:n], '…')
	}
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
