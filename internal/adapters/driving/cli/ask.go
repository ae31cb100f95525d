package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

var (
	askCollection string
	askTopK       int
	askStream     bool
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant document segments and generates an
answer grounded in them. Sources are listed with similarity scores.

With --stream, answer tokens are printed as the model produces them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "", "collection to query (default from config)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of segments to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "stream the answer as it is generated")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	collection := askCollection
	if collection == "" {
		collection = appConfig.Retrieval.Collection
	}
	topK := askTopK
	if topK <= 0 {
		topK = appConfig.Retrieval.TopK
	}

	if askStream {
		return runAskStream(cmd, question, collection, topK)
	}

	answer, err := queryService.Ask(cmd.Context(), question, collection, topK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	printSources(cmd, answer.Sources)
	return nil
}

func runAskStream(cmd *cobra.Command, question, collection string, topK int) error {
	events, err := queryService.AskStream(cmd.Context(), question, collection, topK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var sources []domain.SourcePreview
	done := false
	for event := range events {
		switch event.Type {
		case domain.EventSources:
			sources = event.Sources
		case domain.EventToken:
			cmd.Print(event.Token)
		case domain.EventDone:
			done = true
			cmd.Println()
			printSources(cmd, sources)
		case domain.EventError:
			cmd.Println()
			return fmt.Errorf("ask failed: %s", event.Err)
		}
	}
	// A stream that closes without the completion event was cut short.
	if !done {
		cmd.Println()
		return errors.New("answer stream ended unexpectedly")
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SourcePreview) {
	if len(sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		filename, _ := src.Attributes["filename"].(string)
		if filename == "" {
			filename = "unknown"
		}
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, filename, src.Score)
		cmd.Printf("      %s\n", src.Text)
	}
}
