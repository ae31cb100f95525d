package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleCollectionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil store returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}}, "default", 5)
		require.NoError(t, err)

		req := makeReadResourceRequest("folio://collections")
		result, err := server.handleCollectionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns collections successfully", func(t *testing.T) {
		mockStore := &mockVectorStore{
			infos: []domain.CollectionInfo{
				{Name: "default", SegmentCount: 12},
				{Name: "legal", SegmentCount: 3},
			},
		}

		ports := &Ports{Query: &mockQueryService{}, Store: mockStore}
		server, err := NewServer(ports, "default", 5)
		require.NoError(t, err)

		req := makeReadResourceRequest("folio://collections")
		result, err := server.handleCollectionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "default")
		assert.Contains(t, result.Contents[0].Text, "legal")
		assert.Contains(t, result.Contents[0].Text, "12")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		ports := &Ports{
			Query: &mockQueryService{},
			Store: &mockVectorStore{err: errors.New("database error")},
		}
		server, err := NewServer(ports, "default", 5)
		require.NoError(t, err)

		req := makeReadResourceRequest("folio://collections")
		_, err = server.handleCollectionsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing collections")
	})
}
