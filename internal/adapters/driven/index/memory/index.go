// Package memory provides an in-memory profile index using brute-force
// cosine similarity. It serves tests and offline runs where chromem is
// not wanted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.IndexFactory = (*Factory)(nil)
	_ driven.ProfileIndex = (*Index)(nil)
)

// Factory creates in-memory profile indexes.
type Factory struct {
	embedder driven.EmbeddingService
}

// NewFactory creates a new in-memory index factory.
func NewFactory(embedder driven.EmbeddingService) *Factory {
	return &Factory{embedder: embedder}
}

// New creates an empty index. The name is accepted for interface parity
// but unused; nothing outlives the handle.
func (f *Factory) New(_ context.Context, _ string) (driven.ProfileIndex, error) {
	return &Index{embedder: f.embedder}, nil
}

// Index holds chunks and their vectors, scored by cosine similarity.
type Index struct {
	embedder driven.EmbeddingService

	mu      sync.RWMutex
	chunks  []domain.Chunk
	vectors [][]float32
	closed  bool
}

// Build embeds and stores the chunks.
func (i *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return domain.ErrIndexUnavailable
	}
	if len(chunks) == 0 {
		return domain.ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for idx, chunk := range chunks {
		texts[idx] = chunk.Text
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		i.closed = true
		i.chunks, i.vectors = nil, nil
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		i.closed = true
		i.chunks, i.vectors = nil, nil
		return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrIndexUnavailable, len(vectors), len(chunks))
	}

	i.chunks = append(i.chunks, chunks...)
	i.vectors = append(i.vectors, vectors...)
	return nil
}

// Query retrieves the topK most similar chunks, similarity descending.
func (i *Index) Query(ctx context.Context, question string, topK int) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}

	i.mu.RLock()
	closed := i.closed
	i.mu.RUnlock()
	if closed {
		return nil, domain.ErrIndexUnavailable
	}

	queryVec, err := i.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.chunks) == 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredChunk, len(i.chunks))
	for idx, chunk := range i.chunks {
		scored[idx] = domain.ScoredChunk{
			Chunk:      chunk,
			Similarity: cosine(i.vectors[idx], queryVec),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Similarity > scored[b].Similarity
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

// HasEmbedding reports whether the chunk's embedding is stored.
func (i *Index) HasEmbedding(_ context.Context, chunkID string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return false, domain.ErrIndexUnavailable
	}

	for idx, chunk := range i.chunks {
		if chunk.ID == chunkID {
			return len(i.vectors[idx]) > 0, nil
		}
	}
	return false, nil
}

// Len returns the number of indexed chunks.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.chunks)
}

// Close releases the stored chunks and vectors.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.chunks, i.vectors = nil, nil
	return nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for idx := 0; idx < n; idx++ {
		dot += float64(a[idx]) * float64(b[idx])
		normA += float64(a[idx]) * float64(a[idx])
		normB += float64(b[idx]) * float64(b[idx])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
