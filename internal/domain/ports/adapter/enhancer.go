package adapter

import "context"

// PromptEnhancer rewrites a short user prompt into a richer generation
// prompt. Implementations must be best-effort: on failure the caller falls
// back to the raw prompt.
type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}
