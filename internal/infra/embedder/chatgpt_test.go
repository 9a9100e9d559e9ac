package embedder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
)

func newEmbedderUnderTest(t *testing.T, handler http.HandlerFunc) *ChatGPTEmbedder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := chatgpt.NewClient("test-key", server.URL, time.Second)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatGPTEmbedder(client, "text-embedding-3-small", logger)
}

func TestEmbedOrdersResultsByIndex(t *testing.T) {
	emb := newEmbedderUnderTest(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatgpt.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"first", "second", "third"}, req.Input)

		// reply deliberately out of input order
		_, _ = w.Write([]byte(`{"data":[
			{"index":2,"embedding":[3,3]},
			{"index":0,"embedding":[1,1]},
			{"index":1,"embedding":[2,2]}
		]}`))
	})

	vectors, err := emb.Embed(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1, 1}, {2, 2}, {3, 3}}, vectors)
}

func TestEmbedRejectsCountMismatch(t *testing.T) {
	emb := newEmbedderUnderTest(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,1]}]}`))
	})

	_, err := emb.Embed(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "count mismatch")
}

func TestEmbedRejectsDuplicateIndex(t *testing.T) {
	emb := newEmbedderUnderTest(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"index":0,"embedding":[1,1]},
			{"index":0,"embedding":[2,2]}
		]}`))
	})

	_, err := emb.Embed(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate embedding result index")
}

func TestEmbedRejectsIndexOutOfRange(t *testing.T) {
	emb := newEmbedderUnderTest(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"index":0,"embedding":[1,1]},
			{"index":5,"embedding":[2,2]}
		]}`))
	})

	_, err := emb.Embed(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}

func TestEmbedEmptyInput(t *testing.T) {
	emb := newEmbedderUnderTest(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected for empty input")
	})

	vectors, err := emb.Embed(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, vectors)
}
