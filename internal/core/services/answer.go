package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driving"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// maxAnswerTokens caps completion length for both facts and answers.
const maxAnswerTokens = 500

// AnswerService answers questions against a session's retrieval index.
type AnswerService struct {
	sessions    driven.SessionStore
	llm         driven.LLMService
	prompts     driven.PromptStore
	topK        int
	temperature float64
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	sessions driven.SessionStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	topK int,
	temperature float64,
) *AnswerService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &AnswerService{
		sessions:    sessions,
		llm:         llm,
		prompts:     prompts,
		topK:        topK,
		temperature: temperature,
	}
}

// Ask retrieves context for the question and generates a grounded answer.
func (s *AnswerService) Ask(ctx context.Context, sessionID, question string) (*domain.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	retrieved, err := s.retrieve(ctx, sessionID, question)
	if err != nil {
		return nil, err
	}

	template, err := s.prompts.Load(driven.PromptUserQuestion)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, contextText(retrieved), question)

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxAnswerTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.AnswerResult{
		Text:      strings.TrimSpace(answer),
		Retrieved: retrieved,
	}, nil
}

// Facts generates the opening facts about the session's subject.
func (s *AnswerService) Facts(ctx context.Context, sessionID string) (string, error) {
	retrieved, err := s.retrieve(ctx, sessionID, factsQuery)
	if err != nil {
		return "", err
	}

	template, err := s.prompts.Load(driven.PromptInitialFacts)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, contextText(retrieved))

	facts, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxAnswerTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate facts: %w", err)
	}

	return strings.TrimSpace(facts), nil
}

// retrieve looks up the session and queries its index.
func (s *AnswerService) retrieve(ctx context.Context, sessionID, question string) ([]domain.ScoredChunk, error) {
	session, index, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	retrieved, err := index.Query(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	logger.Debug("Retrieved %d/%d chunks for %q (session %s)",
		len(retrieved), s.topK, question, session.ID)
	return retrieved, nil
}

// contextText joins retrieved chunks, best match first.
func contextText(retrieved []domain.ScoredChunk) string {
	parts := make([]string, len(retrieved))
	for i, scored := range retrieved {
		parts[i] = scored.Chunk.Text
	}
	return strings.Join(parts, "\n\n")
}
