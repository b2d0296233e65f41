// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vorgawall/assistant-tui/internal/logging"
)

// DefaultOpenAIModel is used when the config names no model.
const DefaultOpenAIModel = "gpt-4o-mini"

// =============================================================================
// OPENAI GENERATOR
// =============================================================================

// OpenAIGenerator talks to a hosted OpenAI-compatible chat completion
// endpoint. Base URL overrides allow pointing it at any compatible gateway.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

var openaiLog = logging.GetLogger("OpenAI")

// NewOpenAIGenerator creates a generator for the configured endpoint.
func NewOpenAIGenerator(opts Options) *OpenAIGenerator {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	openaiLog.Info().Str("model", model).Msg("openai generator initialized")

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateReply implements Generator.
func (g *OpenAIGenerator) GenerateReply(ctx context.Context, in Input) (string, error) {
	return g.complete(ctx, ChatSystemPrompt(), ChatPrompt(in))
}

// GenerateVoiceReply implements Generator.
func (g *OpenAIGenerator) GenerateVoiceReply(ctx context.Context, transcript string) (string, error) {
	return g.complete(ctx, VoiceSystemPrompt(), VoicePrompt(transcript))
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return coerce("", nil)
	}
	return coerce(resp.Choices[0].Message.Content, nil)
}
