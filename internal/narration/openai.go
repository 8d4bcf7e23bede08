package narration

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/cory-johannsen/mazmorra/internal/config"
)

// OpenAI narrates with an OpenAI-compatible chat completion API, such as
// Groq's.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewOpenAI creates an OpenAI-compatible narrator. A non-empty cfg.BaseURL
// points the client at another provider.
//
// Precondition: cfg.APIKey and cfg.Model must be non-empty.
func NewOpenAI(cfg config.NarratorConfig) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Narrate sends the system prompt and turn grounding as a chat completion.
func (o *OpenAI) Narrate(ctx context.Context, req Request) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(req)},
		},
		MaxTokens:   o.maxTokens,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("openai narration: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyNarration
	}
	return resp.Choices[0].Message.Content, nil
}
