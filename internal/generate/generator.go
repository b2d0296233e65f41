// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import (
	"context"
	"errors"
	"strings"
)

// =============================================================================
// FEATURE CONTEXT
// =============================================================================

// Feature is an optional tag passed through to the generator to bias its
// response style. Open enum: unknown values are forwarded untouched.
type Feature string

const (
	FeatureNone    Feature = ""
	FeatureSearch  Feature = "search"
	FeatureImage   Feature = "image"
	FeatureArticle Feature = "article"
)

// =============================================================================
// GENERATOR INTERFACE
// =============================================================================

// Input carries one user message to the generator.
type Input struct {
	Message string
	Feature Feature
}

// Generator produces assistant replies. Implementations return Markdown
// text from GenerateReply and plain speakable text from GenerateVoiceReply.
type Generator interface {
	// GenerateReply returns the assistant's reply to a chat message.
	GenerateReply(ctx context.Context, in Input) (string, error)

	// GenerateVoiceReply returns a concise, speech-friendly reply to a
	// voice transcript.
	GenerateVoiceReply(ctx context.Context, transcript string) (string, error)
}

// =============================================================================
// FALLBACKS
// =============================================================================

// FallbackReply is substituted whenever the generator fails or returns an
// empty result.
const FallbackReply = "I apologize, but I am unable to process your request at this time."

// FallbackVoiceReply is the voice-mode equivalent of FallbackReply.
const FallbackVoiceReply = "I'm listening. How can I help you?"

// ErrEmptyReply is returned by providers that completed the request but got
// no usable text back.
var ErrEmptyReply = errors.New("generator returned an empty reply")

// coerce maps a provider result onto the failure-or-text discipline:
// whitespace-only replies become ErrEmptyReply so every caller takes the
// fallback path instead of appending a blank assistant message.
func coerce(reply string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// =============================================================================
// PROVIDER SELECTION
// =============================================================================

// Options selects and configures a provider.
type Options struct {
	// Provider is one of "openai", "ollama", "mock".
	Provider string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates against hosted providers.
	APIKey string

	// Model names the model to query.
	Model string
}

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown generator provider")

// New builds the configured Generator. An empty provider name selects the
// mock so the client works out of the box, matching the original app's
// canned-response behavior before an API key is configured.
func New(opts Options) (Generator, error) {
	switch opts.Provider {
	case "", "mock":
		return NewMockGenerator(), nil
	case "openai":
		return NewOpenAIGenerator(opts), nil
	case "ollama":
		return NewOllamaGenerator(opts), nil
	default:
		return nil, ErrUnknownProvider
	}
}
