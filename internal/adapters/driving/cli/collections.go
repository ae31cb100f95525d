package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections and their segment counts",
	Args:  cobra.NoArgs,
	RunE:  runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	infos, err := vectorStore.Collections(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	if len(infos) == 0 {
		cmd.Println("No collections yet. Ingest a document to create one.")
		return nil
	}

	cmd.Println("Collections:")
	for _, info := range infos {
		cmd.Printf("  %-24s %d segments\n", info.Name, info.SegmentCount)
	}
	return nil
}
