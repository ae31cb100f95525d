package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from indexed documents"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to query (defaults to the configured collection)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of document segments to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved segment supporting the answer.
type SourceOutput struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Filename string  `json:"filename,omitempty"`
	Document string  `json:"document_id,omitempty"`
}

// IngestInput is the input schema for the ingest_file tool.
type IngestInput struct {
	Path       string `json:"path" jsonschema:"path to a text or Markdown file to index"`
	Collection string `json:"collection,omitempty" jsonschema:"target collection (defaults to the configured collection)"`
}

// IngestOutput is the output schema for the ingest_file tool.
type IngestOutput struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	SegmentCount int    `json:"segment_count"`
	Collection   string `json:"collection"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocumentID string `json:"document_id" jsonschema:"identifier of the document to remove"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to delete from (defaults to the configured collection)"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Deleted int `json:"deleted"`
}

// CollectionsOutput is the output schema for the list_collections tool.
type CollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
}

// CollectionOutput is one collection with its segment count.
type CollectionOutput struct {
	Name         string `json:"name"`
	SegmentCount int    `json:"segment_count"`
}

// registerTools registers all tool handlers with the MCP server.
// Tools whose ports are missing are simply not offered.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents",
	}, s.handleAsk)

	if s.ports.Ingest != nil && s.ports.Extractor != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_file",
			Description: "Index a local text or Markdown file for question answering",
		}, s.handleIngest)
	}

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_document",
			Description: "Remove an ingested document and all its segments",
		}, s.handleDelete)
	}

	if s.ports.Store != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_collections",
			Description: "List document collections and their segment counts",
		}, s.handleCollections)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	collection := input.Collection
	if collection == "" {
		collection = s.defaultCollection
	}
	topK := input.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	answer, err := s.ports.Query.Ask(ctx, input.Question, collection, topK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		filename, _ := src.Attributes["filename"].(string)
		documentID, _ := src.Attributes["document_id"].(string)
		output.Sources[i] = SourceOutput{
			Text:     src.Text,
			Score:    src.Score,
			Filename: filename,
			Document: documentID,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_file tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	filename := filepath.Base(input.Path)
	if !s.ports.Extractor.Supports(filename) {
		return nil, IngestOutput{}, fmt.Errorf("unsupported file type: %s", filename)
	}

	collection := input.Collection
	if collection == "" {
		collection = s.defaultCollection
	}

	text, err := s.ports.Extractor.Extract(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	result, err := s.ports.Ingest.Ingest(ctx, text, filename, collection)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID:   result.DocumentID,
		Filename:     result.Filename,
		SegmentCount: result.SegmentCount,
		Collection:   result.Collection,
	}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	collection := input.Collection
	if collection == "" {
		collection = s.defaultCollection
	}

	deleted, err := s.ports.Ingest.Delete(ctx, input.DocumentID, collection)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	return nil, DeleteOutput{Deleted: deleted}, nil
}

// handleCollections handles the list_collections tool invocation.
func (s *Server) handleCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CollectionsOutput, error) {
	infos, err := s.ports.Store.Collections(ctx)
	if err != nil {
		return nil, CollectionsOutput{}, err
	}

	output := CollectionsOutput{
		Collections: make([]CollectionOutput, len(infos)),
	}
	for i, info := range infos {
		output.Collections[i] = CollectionOutput{
			Name:         info.Name,
			SegmentCount: info.SegmentCount,
		}
	}
	return nil, output, nil
}
