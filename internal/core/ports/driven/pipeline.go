package driven

import (
	"context"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

// Connector fetches raw profile bytes from a configured source.
// Exactly one source form of the request is honoured, in priority order:
// raw content, then mock file, then live fetch.
//
// Implementations perform no retries. A network failure, a non-success HTTP
// status, or a missing mock file is reported as domain.ErrFetchFailed with
// enough context to diagnose.
type Connector interface {
	// SourceType identifies the ingestion path this connector serves.
	SourceType() domain.SourceType

	// Fetch resolves the request into raw profile bytes.
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.RawProfile, error)
}

// Extractor parses raw profile bytes into a structured record.
//
// Extractors never raise past their boundary for expected failure modes:
// a missing content container is domain.ErrContentMissing, malformed input
// is domain.ErrInvalidInput. No partial record is ever returned alongside
// an error.
type Extractor interface {
	// SourceType identifies the ingestion path this extractor serves.
	SourceType() domain.SourceType

	// Extract produces an immutable ProfileRecord from raw bytes.
	Extract(ctx context.Context, raw *domain.RawProfile) (*domain.ProfileRecord, error)
}

// Splitter converts a ProfileRecord into an ordered chunk sequence.
// A record with no indexable content yields an empty sequence and no error;
// refusing to build an index from zero chunks is the caller's job.
type Splitter interface {
	// Split chunks the record. Pure function: no shared state, no I/O.
	Split(record *domain.ProfileRecord) ([]domain.Chunk, error)
}
