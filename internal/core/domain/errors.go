package domain

import "errors"

// Domain errors represent expected failure modes of the pipeline.
// These are distinct from infrastructure errors and are matched with
// errors.Is at call sites.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates the profile source could not be retrieved:
	// a network error, a non-success HTTP status, or a missing mock file.
	// Extraction aborts; no partial record is produced.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrContentMissing indicates the page's main content container is
	// absent. There is nothing to segment, so extraction aborts the same
	// way a fetch failure does.
	ErrContentMissing = errors.New("main content container missing")

	// ErrNoChunks indicates chunking produced an empty sequence (no
	// sections and no infobox after filtering). An empty index cannot
	// answer questions, so callers must refuse to build one.
	ErrNoChunks = errors.New("no chunks produced from profile data")

	// ErrInvalidChunking indicates a chunker misconfiguration, such as an
	// overlap that is not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrSessionNotFound indicates an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Index builds are impossible without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured or
	// unreachable. Facts and answers are impossible without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates the vector index backend failed.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
