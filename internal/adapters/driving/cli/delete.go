package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCollection string

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Remove an ingested document",
	Long: `Removes all segments of a document from the vector store.
Deleting a document that does not exist is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteCollection, "collection", "c", "", "collection to delete from (default from config)")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	documentID := args[0]

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	collection := deleteCollection
	if collection == "" {
		collection = appConfig.Retrieval.Collection
	}

	deleted, err := ingestService.Delete(cmd.Context(), documentID, collection)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if deleted == 0 {
		cmd.Printf("No segments found for document %s in %q\n", documentID, collection)
		return nil
	}
	cmd.Printf("Deleted %d segments of document %s from %q\n", deleted, documentID, collection)
	return nil
}
