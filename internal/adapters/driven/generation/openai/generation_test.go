package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *GenerationService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	svc, err := NewGenerationService(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
	})
	require.NoError(t, err)
	return svc
}

func collect(t *testing.T, ch <-chan driven.Fragment) []driven.Fragment {
	t.Helper()
	var out []driven.Fragment
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("timed out waiting for fragments")
		}
	}
}

func TestNewGenerationService_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerationService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestGenerate(t *testing.T) {
	var gotReq chatRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Within 30 days."}}]}`)
	})

	answer, err := svc.Generate(context.Background(), "Refund window?", []string{"Refunds allowed within 30 days."})
	require.NoError(t, err)

	assert.Equal(t, "Within 30 days.", answer)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Contains(t, gotReq.Messages[1].Content, "[Passage 1]")
}

func TestGenerate_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`)
	})

	_, err := svc.Generate(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGenerateStream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	ch, err := svc.GenerateStream(context.Background(), "q", nil)
	require.NoError(t, err)

	fragments := collect(t, ch)
	require.Len(t, fragments, 2)
	assert.Equal(t, "Hello", fragments[0].Content)
	assert.Equal(t, " world", fragments[1].Content)
}

func TestGenerateStream_ErrorPayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"part\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"server overloaded\",\"type\":\"server_error\"}}\n\n")
	})

	ch, err := svc.GenerateStream(context.Background(), "q", nil)
	require.NoError(t, err)

	fragments := collect(t, ch)
	require.Len(t, fragments, 2)
	assert.Equal(t, "part", fragments[0].Content)
	require.Error(t, fragments[1].Err)
	assert.Contains(t, fragments[1].Err.Error(), "server overloaded")
}

func TestGenerateStream_RequestErrorIsEager(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := svc.GenerateStream(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
