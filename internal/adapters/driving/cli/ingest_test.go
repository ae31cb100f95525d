package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_IngestsEachFile(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ingest", "/tmp/a.txt", "/tmp/b.md")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.md"}, mocks.ingest.ingested)
	assert.Contains(t, out, "Ingested a.txt")
	assert.Contains(t, out, "Ingested b.md")
	assert.Contains(t, out, "document doc-123")
}

func TestIngestCmd_CollectionFlag(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	defer func() { ingestCollection = "" }()

	_, err := execute(t, "ingest", "-c", "handbook", "/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"handbook"}, mocks.ingest.collections)
}

func TestIngestCmd_DefaultCollection(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	ingestCollection = ""

	_, err := execute(t, "ingest", "/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{appConfig.Retrieval.Collection}, mocks.ingest.collections)
}

func TestIngestCmd_UnsupportedFile(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest", "/tmp/report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Empty(t, mocks.ingest.ingested)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.ingest.err = errors.New("store unavailable")

	_, err := execute(t, "ingest", "/tmp/a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() { ingestService = oldService }()

	_, err := execute(t, "ingest", "/tmp/a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
