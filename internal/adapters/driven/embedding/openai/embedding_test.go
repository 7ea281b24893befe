package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *EmbeddingService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return server, service
}

func embeddingHandler(t *testing.T, dims int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]any{"data": []map[string]any{}}
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, dims)
			vec[0] = float64(i + 1)
			data[i] = map[string]any{"embedding": vec, "index": i}
		}
		resp["data"] = data
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("applies defaults", func(t *testing.T) {
		service, err := NewEmbeddingService(Config{APIKey: "key"})

		require.NoError(t, err)
		assert.Equal(t, DefaultModel, service.ModelName())
		assert.Equal(t, 1536, service.Dimensions())
	})

	t.Run("knows large model dimensions", func(t *testing.T) {
		service, err := NewEmbeddingService(Config{APIKey: "key", Model: "text-embedding-3-large"})

		require.NoError(t, err)
		assert.Equal(t, 3072, service.Dimensions())
	})
}

func TestEmbeddingService_Embed(t *testing.T) {
	_, service := newTestServer(t, embeddingHandler(t, 4))

	vec, err := service.Embed(context.Background(), "hello")

	require.NoError(t, err)
	require.Len(t, vec, 4)
	assert.Equal(t, float32(1), vec[0])
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	t.Run("empty input returns nil", func(t *testing.T) {
		_, service := newTestServer(t, embeddingHandler(t, 4))

		vecs, err := service.EmbedBatch(context.Background(), nil)

		require.NoError(t, err)
		assert.Nil(t, vecs)
	})

	t.Run("preserves input order", func(t *testing.T) {
		_, service := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req embeddingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			// Return data out of order; the adapter must reorder by index.
			resp := map[string]any{"data": []map[string]any{
				{"embedding": []float64{2}, "index": 1},
				{"embedding": []float64{1}, "index": 0},
			}}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		})

		vecs, err := service.EmbedBatch(context.Background(), []string{"a", "b"})

		require.NoError(t, err)
		require.Len(t, vecs, 2)
		assert.Equal(t, float32(1), vecs[0][0])
		assert.Equal(t, float32(2), vecs[1][0])
	})

	t.Run("splits oversized batches", func(t *testing.T) {
		var calls int
		_, service := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			embeddingHandler(t, 2)(w, r)
		})

		texts := make([]string, MaxBatchSize+1)
		for i := range texts {
			texts[i] = "text"
		}

		vecs, err := service.EmbedBatch(context.Background(), texts)

		require.NoError(t, err)
		assert.Len(t, vecs, MaxBatchSize+1)
		assert.Equal(t, 2, calls)
	})

	t.Run("API error surfaces sentinel", func(t *testing.T) {
		_, service := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
		})

		_, err := service.EmbedBatch(context.Background(), []string{"a"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "bad key")
	})

	t.Run("missing embedding in response is an error", func(t *testing.T) {
		_, service := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		})

		_, err := service.EmbedBatch(context.Background(), []string{"a"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestEmbeddingService_Ping(t *testing.T) {
	t.Run("ok on 200", func(t *testing.T) {
		_, service := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})

		assert.NoError(t, service.Ping(context.Background()))
	})

	t.Run("error on non-200", func(t *testing.T) {
		_, service := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		err := service.Ping(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}
