package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List indexed collections",
	RunE:  runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := cmd.Context()

	collections, err := documentService.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(collections) == 0 {
		cmd.Println("No collections indexed yet. Run 'laravel-docs-mcp index' first.")
		return nil
	}

	for _, name := range collections {
		docs, err := documentService.ListByCollection(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to list documents for %s: %w", name, err)
		}
		cmd.Printf("  %s (%d documents)\n", name, len(docs))
	}
	return nil
}
