// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single conversation message.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	// Revealing marks an assistant message still being disclosed; a cursor
	// is appended and code fences are left unrendered until complete.
	Revealing bool
	theme     *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		empty := model.Message{Role: model.RoleAssistant}
		return &MessageBubble{Message: &empty, Width: 80, theme: theme}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

// ==========================================================================
// USER BUBBLE - Teal tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" && len(b.Message.Attachments) == 0 {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)

	body := wrapped
	if chips := b.renderAttachments(); chips != "" {
		if body != "" {
			body = chips + "\n" + body
		} else {
			body = chips
		}
	}

	contentWidth := minInt(maxLineWidth(body)+4, b.Width-8)

	bubble := b.theme.UserBubble.
		Width(contentWidth).
		MarginLeft(0).
		Render(body)

	header := b.theme.MessageMeta.Render(b.headerLine("you"))

	// Right-align with a left margin.
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - Indigo tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content

	if b.Revealing {
		content += " ▌"
	}
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var body string
	if !b.Revealing && strings.Contains(content, "```") {
		// Fences get the full chroma treatment once the reveal is done.
		body = ParseCodeBlocks(wordWrapProse(content, maxContentWidth), maxContentWidth)
	} else {
		body = wordWrap(content, maxContentWidth)
	}

	contentWidth := minInt(maxLineWidth(body)+4, b.Width-8)

	bubble := b.theme.AssistantBubble.
		Width(contentWidth).
		Render(body)

	header := b.theme.MessageMeta.Render(b.headerLine("assistant"))

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// =============================================================================
// HELPERS
// =============================================================================

func (b *MessageBubble) headerLine(role string) string {
	parts := []string{role}
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.Message.Timestamp.Format("15:04"))
	}
	return strings.Join(parts, " ")
}

func (b *MessageBubble) renderAttachments() string {
	if len(b.Message.Attachments) == 0 {
		return ""
	}

	var chips []string
	for _, att := range b.Message.Attachments {
		label := att.DisplayName
		if label == "" {
			label = string(att.Kind)
		}
		prefix := "[file]"
		if att.Kind == model.AttachmentImage {
			prefix = "[img]"
		}
		chips = append(chips, b.theme.AttachmentChip.Render(prefix+" "+label))
	}
	return strings.Join(chips, " ")
}

// wordWrapProse wraps only the lines outside code fences so fence content
// reaches the highlighter intact.
func wordWrapProse(text string, width int) string {
	lines := strings.Split(text, "\n")
	var out []string
	inFence := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
		} else {
			out = append(out, wordWrap(line, width))
		}
	}
	return strings.Join(out, "\n")
}
