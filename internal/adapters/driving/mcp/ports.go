package mcp

import (
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over indexed documents.
	Query driving.QueryService

	// Ingest indexes and deletes documents. Optional; without it the
	// ingest and delete tools are not registered.
	Ingest driving.IngestService

	// Store lists collections. Optional.
	Store driven.VectorStore

	// Extractor reads document files for the ingest tool. Optional.
	Extractor driven.TextExtractor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Ingest, Store, and Extractor are optional
	return nil
}
