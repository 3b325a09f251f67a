package ai

import (
	"context"

	"telegram-video-bot/internal/domain/ports/adapter"
)

var _ adapter.PromptEnhancer = (*NoopEnhancer)(nil)

// NoopEnhancer returns prompts unchanged. Used when no OpenAI key is set.
type NoopEnhancer struct{}

func NewNoopEnhancer() *NoopEnhancer { return &NoopEnhancer{} }

func (NoopEnhancer) Enhance(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}
