// Package chromem provides a profile index backed by chromem-go, an
// embeddable in-process vector database.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure interfaces are implemented.
var (
	_ driven.IndexFactory = (*Factory)(nil)
	_ driven.ProfileIndex = (*Index)(nil)
)

// metaSequence carries chunk ordering through the collection and back.
const metaSequence = "sequence"

// Factory creates chromem-backed profile indexes sharing one database.
type Factory struct {
	db       *chromem.DB
	embedder driven.EmbeddingService
}

// NewFactory creates a new index factory on an in-memory chromem database.
func NewFactory(embedder driven.EmbeddingService) *Factory {
	return &Factory{
		db:       chromem.NewDB(),
		embedder: embedder,
	}
}

// New creates an empty index under the given name.
func (f *Factory) New(_ context.Context, name string) (driven.ProfileIndex, error) {
	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return f.embedder.Embed(ctx, text)
	}

	collection, err := f.db.CreateCollection(name, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection %s: %w", domain.ErrIndexUnavailable, name, err)
	}

	return &Index{
		db:         f.db,
		name:       name,
		collection: collection,
		embedder:   f.embedder,
	}, nil
}

// Index is a retrieval index over one profile's chunks.
type Index struct {
	db         *chromem.DB
	name       string
	collection *chromem.Collection
	embedder   driven.EmbeddingService

	mu     sync.Mutex
	closed bool
}

// Build embeds and stores the chunks. On any failure the collection is
// discarded so no partial index survives.
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

	// Batch embedding is far cheaper than per-document calls, so vectors
	// are computed up front instead of through the collection's
	// embedding func.
	embeddings, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		i.discard()
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	docs := make([]chromem.Document, len(chunks))
	for idx, chunk := range chunks {
		metadata := make(map[string]string, len(chunk.Metadata)+1)
		for key, value := range chunk.Metadata {
			metadata[key] = value
		}
		metadata[metaSequence] = strconv.Itoa(chunk.Sequence)

		docs[idx] = chromem.Document{
			ID:        chunk.ID,
			Metadata:  metadata,
			Embedding: embeddings[idx],
			Content:   chunk.Text,
		}
	}

	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		i.discard()
		return fmt.Errorf("%w: add documents: %w", domain.ErrIndexUnavailable, err)
	}

	logger.Debug("chromem: indexed %d chunks into %s", len(chunks), i.name)
	return nil
}

// Query retrieves the topK most similar chunks, similarity descending.
func (i *Index) Query(ctx context.Context, question string, topK int) ([]domain.ScoredChunk, error) {
	i.mu.Lock()
	closed := i.closed
	count := 0
	if !closed {
		count = i.collection.Count()
	}
	i.mu.Unlock()

	if closed {
		return nil, domain.ErrIndexUnavailable
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}
	if count == 0 {
		return nil, nil
	}

	// chromem rejects queries asking for more results than documents.
	if topK > count {
		topK = count
	}

	results, err := i.collection.Query(ctx, question, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrIndexUnavailable, err)
	}

	scored := make([]domain.ScoredChunk, len(results))
	for idx, result := range results {
		scored[idx] = domain.ScoredChunk{
			Chunk:      chunkFromResult(result),
			Similarity: result.Similarity,
		}
	}
	return scored, nil
}

// HasEmbedding reports whether the chunk's embedding is retrievable.
func (i *Index) HasEmbedding(ctx context.Context, chunkID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return false, domain.ErrIndexUnavailable
	}

	doc, err := i.collection.GetByID(ctx, chunkID)
	if err != nil {
		return false, nil
	}
	return len(doc.Embedding) > 0, nil
}

// Len returns the number of indexed chunks.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0
	}
	return i.collection.Count()
}

// Close discards the collection.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.discard()
	return nil
}

// discard drops the collection. Caller must hold the mutex.
func (i *Index) discard() {
	i.closed = true
	if err := i.db.DeleteCollection(i.name); err != nil {
		logger.Debug("chromem: delete collection %s: %v", i.name, err)
	}
}

func chunkFromResult(result chromem.Result) domain.Chunk {
	sequence := 0
	metadata := make(map[string]string, len(result.Metadata))
	for key, value := range result.Metadata {
		if key == metaSequence {
			if parsed, err := strconv.Atoi(value); err == nil {
				sequence = parsed
			}
			continue
		}
		metadata[key] = value
	}

	return domain.Chunk{
		ID:       result.ID,
		Text:     result.Content,
		Metadata: metadata,
		Sequence: sequence,
	}
}
