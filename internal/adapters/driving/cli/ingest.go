package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCollection string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index documents for question answering",
	Long: `Reads one or more text files, splits them into segments, embeds
the segments, and stores them in the vector store. Supported formats
are plain text and Markdown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "target collection (default from config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if extractor == nil {
		return errors.New("text extractor not configured")
	}

	collection := ingestCollection
	if collection == "" {
		collection = appConfig.Retrieval.Collection
	}

	ctx := cmd.Context()
	for _, path := range args {
		filename := filepath.Base(path)
		if !extractor.Supports(filename) {
			return fmt.Errorf("unsupported file type: %s", filename)
		}

		text, err := extractor.Extract(ctx, path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", filename, err)
		}

		result, err := ingestService.Ingest(ctx, text, filename, collection)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", filename, err)
		}

		cmd.Printf("Ingested %s: %d segments into %q (document %s)\n",
			result.Filename, result.SegmentCount, result.Collection, result.DocumentID)
	}
	return nil
}
