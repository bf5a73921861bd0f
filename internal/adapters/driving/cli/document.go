package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect indexed documents",
	Long:  `List indexed documents and print their metadata or content.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [collection]",
	Short: "List documents in a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [collection] [path]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [collection] [path]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentContent,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	collection := args[0]

	docs, err := documentService.ListByCollection(cmd.Context(), collection)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found in collection: %s\n", collection)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", collection)
	for i := range docs {
		cmd.Printf("  %s (%d bytes)\n", docs[i].Path, docs[i].Size)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	collection, path := args[0], args[1]

	details, err := documentService.GetDetails(cmd.Context(), collection, path)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.Path)
	cmd.Printf("  Collection:  %s\n", details.Collection)
	cmd.Printf("  Hash:        %s\n", details.ContentHash)
	cmd.Printf("  Size:        %d bytes\n", details.Size)
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Modified:    %s\n", details.ModTime.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Indexed:     %s\n", details.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	collection, path := args[0], args[1]

	content, err := documentService.GetContent(cmd.Context(), collection, path)
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}
