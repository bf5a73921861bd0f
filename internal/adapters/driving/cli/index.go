package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clearair/laravel-docs-mcp/internal/corpus"
	"github.com/clearair/laravel-docs-mcp/internal/core/ports/driving"
	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index [collection] [path]",
	Short: "Index a documentation directory into a collection",
	Long: `Recursively indexes the text files under path into the named
collection. Repeated runs are incremental: only new, changed and
deleted files are touched.

With --watch the command keeps running and re-indexes whenever files
under path change.`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching the directory and re-index on change")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	collection := args[0]
	root, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	ctx := cmd.Context()

	report, err := indexerService.Reconcile(ctx, collection, root)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printReport(cmd, report)

	if !indexWatch {
		return nil
	}

	watcher, err := corpus.NewWatcher(root, corpus.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("Watcher stopped: %v", err)
		}
	}()

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", root)
	for range watcher.Changes() {
		report, err := indexerService.Reconcile(ctx, collection, root)
		if err != nil {
			logger.Warn("Re-index failed: %v", err)
			continue
		}
		if report.Indexed > 0 || report.Deleted > 0 {
			printReport(cmd, report)
		}
	}
	return nil
}

func printReport(cmd *cobra.Command, report *driving.ReconcileReport) {
	cmd.Printf("Collection %s: %d indexed, %d deleted, %d unchanged\n",
		report.Collection, report.Indexed, report.Deleted, report.Unchanged)

	for _, warning := range report.Warnings {
		cmd.Printf("  warning: %s\n", warning)
	}
	for _, failure := range report.Failures {
		cmd.Printf("  failed: %s: %v\n", failure.Path, failure.Err)
	}
}
