// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/embedding/openai"
	perplexityllm "github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driven/llm/perplexity"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates an embedding service from settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", domain.ErrEmbeddingUnavailable)
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// CreateLLMService creates a completion service from settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set PPLX_API_KEY", domain.ErrLLMUnavailable)
	}

	return perplexityllm.NewLLMService(perplexityllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity before handing it out.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates a completion service and validates
// connectivity before handing it out.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}
