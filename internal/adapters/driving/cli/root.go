// Package cli implements the cobra command tree and wires the core
// services to their adapters. All human-readable output goes to the
// command's writers; stdout is otherwise reserved for the MCP stdio
// transport started by the serve command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

var (
	configDir string
	dataDir   string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "laravel-docs-mcp",
	Short: "Semantic search over documentation corpora",
	Long: `laravel-docs-mcp indexes directories of documentation files into
semantically searchable chunks and answers natural language queries
over them, either from the command line or as an MCP server for AI
assistants.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// version and help do not touch the index or config.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.laravel-docs-mcp)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "db", "", "index database directory (default <config>/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	defer closeServices()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
