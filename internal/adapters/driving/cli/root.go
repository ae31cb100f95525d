// Package cli implements the Cobra command surface for Folio.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/config"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services aggregates everything the commands need. The composition root
// wires concrete implementations in before Execute runs.
type Services struct {
	Ingest    driving.IngestService
	Query     driving.QueryService
	Store     driven.VectorStore
	Extractor driven.TextExtractor
	Config    *config.Config
}

var (
	ingestService driving.IngestService
	queryService  driving.QueryService
	vectorStore   driven.VectorStore
	extractor     driven.TextExtractor
	appConfig     = config.Default()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Ask questions about your documents from the terminal",
	Long: `Folio indexes local documents and answers questions about them.

Documents are split into segments, embedded, and stored in a local
vector store. Questions retrieve the most relevant segments and a
language model generates an answer grounded in them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	queryService = s.Query
	vectorStore = s.Store
	extractor = s.Extractor
	if s.Config != nil {
		appConfig = s.Config
	}
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
