// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package generate provides the external reply generator consumed by the
// conversation controller.
//
// The controller only sees the Generator interface; providers are selected
// by configuration:
//
//   - openai: hosted OpenAI-compatible endpoint
//   - ollama: local Ollama server
//   - mock: canned offline replies, used when no provider is configured
//
// An empty reply is treated the same as a provider failure; callers
// substitute the fixed fallback strings. Feature context (search, image,
// article) biases the prompt only, the core never branches on it.
package generate
