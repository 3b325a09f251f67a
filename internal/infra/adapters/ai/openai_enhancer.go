package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"telegram-video-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.PromptEnhancer = (*OpenAIEnhancer)(nil)

const enhancerSystemPrompt = "You rewrite short video ideas into vivid, cinematic " +
	"video generation prompts. Answer with the rewritten prompt only, one sentence, " +
	"no quotes, under 60 words."

// OpenAIEnhancer rewrites user prompts via the Chat Completions API.
type OpenAIEnhancer struct {
	client openai.Client
	model  string
}

func NewOpenAIEnhancer(apiKey, model string) (*OpenAIEnhancer, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIEnhancer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(enhancerSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if out := strings.TrimSpace(c.Message.Content); out != "" {
			return out, nil
		}
	}
	return "", errors.New("no choice content")
}
