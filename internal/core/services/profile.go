package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driving"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// factsQuery retrieves career and education context for the opening facts.
const factsQuery = "Provide three interesting facts about this person's career or education."

// ProfileService runs the ingestion pipeline: fetch, extract, chunk,
// build the retrieval index, verify embeddings and mint a session.
type ProfileService struct {
	connectors map[domain.SourceType]driven.Connector
	extractors map[domain.SourceType]driven.Extractor
	splitter   driven.Splitter
	indexes    driven.IndexFactory
	sessions   driven.SessionStore
	answerer   *AnswerService
	topK       int
}

// NewProfileService creates a new profile service. The answerer generates
// the initial facts once the index is built.
func NewProfileService(
	connectors map[domain.SourceType]driven.Connector,
	extractors map[domain.SourceType]driven.Extractor,
	splitter driven.Splitter,
	indexes driven.IndexFactory,
	sessions driven.SessionStore,
	answerer *AnswerService,
	topK int,
) *ProfileService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &ProfileService{
		connectors: connectors,
		extractors: extractors,
		splitter:   splitter,
		indexes:    indexes,
		sessions:   sessions,
		answerer:   answerer,
		topK:       topK,
	}
}

// Process runs the full pipeline for one profile and returns a session
// handle for asking questions.
func (s *ProfileService) Process(ctx context.Context, req driving.ProcessRequest) (*driving.ProcessResult, error) {
	if !req.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source type %q", domain.ErrInvalidInput, req.Source)
	}

	connector, ok := s.connectors[req.Source]
	if !ok {
		return nil, fmt.Errorf("%w: no connector for %s", domain.ErrInvalidInput, req.Source)
	}
	extractor, ok := s.extractors[req.Source]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %s", domain.ErrInvalidInput, req.Source)
	}

	logger.Section("Profile Processing")

	raw, err := connector.Fetch(ctx, req.Fetch)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	logger.Info("Fetched %d bytes from %s", len(raw.Content), raw.Source)

	record, err := extractor.Extract(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}
	logger.Info("Extracted profile for %q: %d sections, %d infobox entries",
		record.Name, len(record.Sections), len(record.Infobox))

	chunks, err := s.splitter.Split(record)
	if err != nil {
		return nil, fmt.Errorf("chunk profile: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: profile for %q produced no indexable text", domain.ErrNoChunks, record.Name)
	}
	logger.Info("Split into %d chunks", len(chunks))

	sessionID := uuid.NewString()

	index, err := s.indexes.New(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := index.Build(ctx, chunks); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("build index: %w", err)
	}
	logger.Info("Indexed %d chunks", index.Len())

	warnings := s.verifyEmbeddings(ctx, index, chunks)

	session := domain.Session{
		ID:         sessionID,
		Subject:    record.Name,
		Source:     record.Source,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.Put(ctx, session, index); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("register session: %w", err)
	}

	result := &driving.ProcessResult{
		SessionID:  sessionID,
		Record:     record,
		ChunkCount: len(chunks),
		Warnings:   warnings,
	}

	// Facts are a nicety, not a gate: the session stays usable when the
	// completion call fails.
	if s.answerer != nil {
		facts, err := s.answerer.Facts(ctx, sessionID)
		if err != nil {
			logger.Warn("Initial facts generation failed: %v", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("initial facts unavailable: %v", err))
		} else {
			result.Facts = facts
		}
	}

	return result, nil
}

// verifyEmbeddings spot-checks that every indexed chunk has a retrievable
// embedding. Missing embeddings are reported, not fatal.
func (s *ProfileService) verifyEmbeddings(ctx context.Context, index driven.ProfileIndex, chunks []domain.Chunk) []string {
	var warnings []string
	for _, chunk := range chunks {
		ok, err := index.HasEmbedding(ctx, chunk.ID)
		if err != nil {
			logger.Warn("Embedding check failed for chunk %s: %v", chunk.ID, err)
			warnings = append(warnings, fmt.Sprintf("embedding check failed for chunk %d: %v", chunk.Sequence, err))
			continue
		}
		if !ok {
			logger.Warn("Chunk %s indexed without a retrievable embedding", chunk.ID)
			warnings = append(warnings, fmt.Sprintf("chunk %d has no retrievable embedding", chunk.Sequence))
		}
	}
	return warnings
}
