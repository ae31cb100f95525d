// Package mcp provides an MCP (Model Context Protocol) server adapter for Folio.
// It lets AI assistants like Claude ask questions over locally indexed documents.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
