// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import (
	"context"
	"strings"
	"time"
)

// =============================================================================
// MOCK GENERATOR
// =============================================================================

// MockGenerator returns canned keyword-matched replies without touching the
// network. It is the default provider until an endpoint is configured, and
// doubles as the offline demo mode.
type MockGenerator struct {
	// Delay simulates provider latency so the thinking indicator is
	// visible. Zero in tests.
	Delay time.Duration
}

// NewMockGenerator creates a mock with a short artificial delay.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{Delay: 1500 * time.Millisecond}
}

// GenerateReply implements Generator.
func (g *MockGenerator) GenerateReply(ctx context.Context, in Input) (string, error) {
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	return coerce(cannedReply(in.Message), nil)
}

// GenerateVoiceReply implements Generator.
func (g *MockGenerator) GenerateVoiceReply(ctx context.Context, transcript string) (string, error) {
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	return coerce(cannedReply(transcript), nil)
}

func (g *MockGenerator) wait(ctx context.Context) error {
	if g.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(g.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cannedReply keyword-matches the input against the stock demo answers.
func cannedReply(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello! I'm the Vorgawall Assistant. How can I help you build your shop today?"
	case strings.Contains(lower, "price"):
		return "Vorgawall offers flexible pricing starting from $0/mo for starters. Check out vorgawall.shop for details."
	default:
		return "That's an interesting question. In the context of the Vorgawall ecosystem, we provide a unified API to handle global logistics and payments seamlessly."
	}
}
