package driven

import (
	"context"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

// ProfileIndex is a retrieval index scoped to one processed profile.
// A handle is built once from a chunk sequence and then queried for the
// life of a session.
type ProfileIndex interface {
	// Build embeds and stores the chunks. All-or-nothing per call: on
	// error no partial index is retained and the handle is unusable.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Query retrieves the topK chunks most similar to the question, in
	// similarity-descending order.
	Query(ctx context.Context, question string, topK int) ([]domain.ScoredChunk, error)

	// HasEmbedding reports whether the chunk's embedding is retrievable.
	// Used as a post-build health check; a missing embedding is reported
	// but not treated as fatal.
	HasEmbedding(ctx context.Context, chunkID string) (bool, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Close releases resources held by the index.
	Close() error
}

// IndexFactory creates empty profile indexes. One index is created per
// successful profile-processing call.
type IndexFactory interface {
	// New creates an empty index under the given name. Names are unique
	// per session and never reused.
	New(ctx context.Context, name string) (ProfileIndex, error)
}
