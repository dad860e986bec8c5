package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// AIService is the generative capability behind a revision. Implementations
// take a system instruction plus a user payload and return the model's raw
// text. The handle is constructed once and passed into the revision service
// so the core stays testable against a fake.
type AIService interface {
	GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIService calls the OpenAI chat-completions API. One call per
// revision, awaited to completion; no streaming, no internal retry. Timeouts
// come from the caller's context.
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService creates the OpenAI-backed generative service.
func NewOpenAIService(apiKey, model string) (*OpenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required. Set OPENAI_API_KEY environment variable")
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// GenerateContentWithSystem implements AIService.
func (s *OpenAIService) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens:   3000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model %s", s.model)
	}

	content := resp.Choices[0].Message.Content
	log.Debug().
		Str("model", s.model).
		Int("length", len(content)).
		Msg("model response received")

	return content, nil
}
