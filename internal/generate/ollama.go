// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultOllamaURL uses the explicit IPv4 address instead of localhost to
// avoid IPv6 resolution issues on Windows.
const DefaultOllamaURL = "http://127.0.0.1:11434"

// DefaultOllamaModel is used when the config names no model.
const DefaultOllamaModel = "llama3.2"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ProviderError represents an error from a generator backend.
type ProviderError struct {
	Type    ProviderErrorType
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ProviderErrorType categorizes provider errors for handling.
type ProviderErrorType int

const (
	ErrTypeUnknown ProviderErrorType = iota
	ErrTypeNotRunning
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ProviderError{Type: ErrTypeNotRunning, Message: "Ollama is not running"}
	ErrModelNotFound = &ProviderError{Type: ErrTypeModelNotFound, Message: "model not found"}
)

// =============================================================================
// OLLAMA GENERATOR
// =============================================================================

// OllamaGenerator queries a local Ollama server via /api/chat without
// streaming: the controller reveals the finished reply itself.
type OllamaGenerator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaGenerator creates a generator for a local Ollama server, filling
// in defaults for any empty option.
func NewOllamaGenerator(opts Options) *OllamaGenerator {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultOllamaModel
	}

	return &OllamaGenerator{
		baseURL: baseURL,
		model:   model,
		// Generation has no explicit deadline; cancellation comes from the
		// caller's context.
		httpClient: &http.Client{},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// GenerateReply implements Generator.
func (g *OllamaGenerator) GenerateReply(ctx context.Context, in Input) (string, error) {
	return g.chat(ctx, ChatSystemPrompt(), ChatPrompt(in))
}

// GenerateVoiceReply implements Generator.
func (g *OllamaGenerator) GenerateVoiceReply(ctx context.Context, transcript string) (string, error) {
	return g.chat(ctx, VoiceSystemPrompt(), VoicePrompt(transcript))
}

func (g *OllamaGenerator) chat(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: g.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		// A dial failure means no server, not a bad exchange.
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return "", ErrNotRunning
		}
		return "", &ProviderError{Type: ErrTypeConnection, Message: "failed to reach Ollama", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrModelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status " + resp.Status,
		}
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ProviderError{Type: ErrTypeInvalidResponse, Message: "invalid JSON response", Cause: err}
	}
	if parsed.Error != "" {
		return "", &ProviderError{Type: ErrTypeUnknown, Message: parsed.Error}
	}

	return coerce(parsed.Message.Content, nil)
}

// Healthy reports whether the Ollama server answers at all. Used by the
// config surface to report reachability, never by the send path.
func (g *OllamaGenerator) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
