// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCoerce(t *testing.T) {
	if _, err := coerce("", nil); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("empty reply should map to ErrEmptyReply, got %v", err)
	}
	if _, err := coerce("   \n", nil); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("whitespace reply should map to ErrEmptyReply, got %v", err)
	}

	got, err := coerce("  hello  ", nil)
	if err != nil || got != "hello" {
		t.Errorf("coerce = (%q, %v)", got, err)
	}

	boom := errors.New("boom")
	if _, err := coerce("text", boom); !errors.Is(err, boom) {
		t.Errorf("provider error should pass through, got %v", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	gen, err := New(Options{})
	if err != nil {
		t.Fatalf("New with empty provider failed: %v", err)
	}
	if _, ok := gen.(*MockGenerator); !ok {
		t.Errorf("empty provider should select the mock, got %T", gen)
	}

	if _, err := New(Options{Provider: "openai", APIKey: "k"}); err != nil {
		t.Errorf("openai provider failed: %v", err)
	}
	if _, err := New(Options{Provider: "ollama"}); err != nil {
		t.Errorf("ollama provider failed: %v", err)
	}
	if _, err := New(Options{Provider: "carrier-pigeon"}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("unknown provider = %v, want ErrUnknownProvider", err)
	}
}

func TestMockGeneratorKeywords(t *testing.T) {
	gen := &MockGenerator{}
	ctx := context.Background()

	reply, err := gen.GenerateReply(ctx, Input{Message: "hello there"})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(reply, "Vorgawall Assistant") {
		t.Errorf("greeting reply = %q", reply)
	}

	reply, _ = gen.GenerateReply(ctx, Input{Message: "what is the price?"})
	if !strings.Contains(reply, "pricing") {
		t.Errorf("price reply = %q", reply)
	}

	reply, _ = gen.GenerateReply(ctx, Input{Message: "tell me about logistics"})
	if !strings.Contains(reply, "unified API") {
		t.Errorf("default reply = %q", reply)
	}
}

func TestMockGeneratorHonorsCancellation(t *testing.T) {
	gen := NewMockGenerator() // real delay
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.GenerateReply(ctx, Input{Message: "hi"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestChatPromptIncludesFeature(t *testing.T) {
	p := ChatPrompt(Input{Message: "draw a cat", Feature: FeatureImage})
	if !strings.Contains(p, "image") {
		t.Errorf("prompt should carry the feature tag: %q", p)
	}
	if !strings.Contains(p, "draw a cat") {
		t.Errorf("prompt should carry the message: %q", p)
	}

	p = ChatPrompt(Input{Message: "plain"})
	if strings.Contains(p, "feature context") {
		t.Errorf("no feature tag expected: %q", p)
	}
}

func TestOllamaGeneratorChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("controller handles the reveal; request must not stream")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "Hello there"},
		})
	}))
	defer srv.Close()

	gen := NewOllamaGenerator(Options{BaseURL: srv.URL})
	reply, err := gen.GenerateReply(context.Background(), Input{Message: "Hi"})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply != "Hello there" {
		t.Errorf("reply = %q, want %q", reply, "Hello there")
	}
}

func TestOllamaGeneratorEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Role: "assistant"}})
	}))
	defer srv.Close()

	gen := NewOllamaGenerator(Options{BaseURL: srv.URL})
	if _, err := gen.GenerateReply(context.Background(), Input{Message: "Hi"}); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("empty reply = %v, want ErrEmptyReply", err)
	}
}

func TestOllamaGeneratorNotRunning(t *testing.T) {
	gen := NewOllamaGenerator(Options{BaseURL: "http://127.0.0.1:1"})

	_, err := gen.GenerateReply(context.Background(), Input{Message: "Hi"})
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Type != ErrTypeNotRunning {
		t.Errorf("error type = %d, want ErrTypeNotRunning", perr.Type)
	}
}

func TestOllamaGeneratorHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("probe hit %s, want /api/tags", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gen := NewOllamaGenerator(Options{BaseURL: srv.URL})
	if !gen.Healthy(context.Background()) {
		t.Error("Healthy = false against a live server")
	}

	down := NewOllamaGenerator(Options{BaseURL: "http://127.0.0.1:1"})
	if down.Healthy(context.Background()) {
		t.Error("Healthy = true against a closed port")
	}
}

func TestOllamaGeneratorDefaults(t *testing.T) {
	gen := NewOllamaGenerator(Options{})
	if gen.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %q", gen.baseURL)
	}
	if gen.model != DefaultOllamaModel {
		t.Errorf("model = %q", gen.model)
	}
}
