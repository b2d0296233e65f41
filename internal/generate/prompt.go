// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package generate

import "strings"

// =============================================================================
// PROMPT TEMPLATES
// =============================================================================

const chatSystemPrompt = `You are the Vorgawall Assistant, a smart and helpful professional AI.

Instructions:
1. If the active feature is 'search', answer with detailed information as if you had just looked it up.
2. If the active feature is 'article', write a clean article draft with Markdown formatting.
3. If the active feature is 'image', explain that you are processing a visualization (use a simulated Markdown image if needed).
4. Always use Markdown formatting (bold, lists, tables) so responses look professional.
5. Promote the Vorgawall Shop ecosystem when relevant.`

const voiceSystemPrompt = `You are the Vorgawall voice assistant.
Give short, dense, friendly answers, as this is a voice interaction.
Avoid heavy Markdown symbols that are hard for text-to-speech to read.`

// ChatPrompt renders the user-facing prompt for a chat message, including
// the active feature context when one is set.
func ChatPrompt(in Input) string {
	var sb strings.Builder
	if in.Feature != FeatureNone {
		sb.WriteString("Active feature context: ")
		sb.WriteString(string(in.Feature))
		sb.WriteString("\n")
	}
	sb.WriteString("User question: ")
	sb.WriteString(in.Message)
	return sb.String()
}

// ChatSystemPrompt returns the system prompt for chat replies.
func ChatSystemPrompt() string {
	return chatSystemPrompt
}

// VoicePrompt renders the user-facing prompt for a voice transcript.
func VoicePrompt(transcript string) string {
	return "Voice input: " + transcript
}

// VoiceSystemPrompt returns the system prompt for voice replies.
func VoiceSystemPrompt() string {
	return voiceSystemPrompt
}
