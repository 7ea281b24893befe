// Package driving defines the interfaces through which the outside world
// drives the application core (primary ports). The CLI depends on these
// interfaces; services implement them.
package driving

import (
	"context"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

// ProcessRequest describes one profile-processing call.
type ProcessRequest struct {
	// Source selects the ingestion path.
	Source domain.SourceType

	// Fetch selects exactly one source form (raw > mock > live).
	Fetch domain.FetchRequest
}

// ProcessResult is the outcome of a successful profile-processing call.
type ProcessResult struct {
	// SessionID is the opaque identifier minted for the built index.
	SessionID string

	// Record is the extracted profile, retained for inspection and dumps.
	Record *domain.ProfileRecord

	// ChunkCount is the number of chunks indexed.
	ChunkCount int

	// Facts is the initial question-free facts text.
	Facts string

	// Warnings lists non-fatal issues, such as chunks indexed without a
	// retrievable embedding.
	Warnings []string
}

// ProfileService runs the full pipeline: fetch, extract, chunk, build the
// index, verify embeddings, generate initial facts and mint a session.
type ProfileService interface {
	Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
}

// AnswerService answers questions against a previously built session index.
type AnswerService interface {
	// Ask retrieves context for the question and generates an answer.
	Ask(ctx context.Context, sessionID, question string) (*domain.AnswerResult, error)
}
