// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/ui/components"
)

// viewportHeight is the space left for the transcript after the header,
// input line, and status bar.
func (m *Model) viewportHeight() int {
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Starting Vorgawall Assistant..."
	}

	if m.showHistory {
		return m.sessions.View()
	}

	subtitle := ""
	if m.conv != nil && m.conv.Title != "" {
		subtitle = m.conv.Title
	}
	m.header.SetSubtitle(subtitle)

	var body string
	if m.isEmpty() {
		body = m.welcome.View()
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m *Model) isEmpty() bool {
	return (m.conv == nil || m.conv.MessageCount() == 0) &&
		m.partial == "" &&
		m.ctrl.State() == conversation.StateIdle
}

// refreshViewport repaints the transcript and follows the newest output.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	if m.conv == nil {
		return ""
	}

	var blocks []string
	for i := range m.conv.Messages {
		bubble := components.NewMessageBubble(&m.conv.Messages[i], m.theme)
		bubble.SetWidth(m.width)
		blocks = append(blocks, bubble.View())
	}

	switch m.ctrl.State() {
	case conversation.StateGenerating:
		blocks = append(blocks, m.spin.View()+" "+m.theme.ThinkingText.Render("Thinking..."))
	case conversation.StateRevealing:
		reveal := model.NewAssistantMessage(m.partial)
		bubble := components.NewMessageBubble(&reveal, m.theme)
		bubble.SetWidth(m.width)
		bubble.Revealing = true
		bubble.ShowTimestamp = false
		blocks = append(blocks, bubble.View())
	}

	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")

	chips := ""
	if len(m.pendingAtts) > 0 {
		var names []string
		for _, att := range m.pendingAtts {
			names = append(names, att.DisplayName)
		}
		chips = " " + m.theme.AttachmentChip.Render(strings.Join(names, ", "))
	}

	return m.theme.InputContainer.
		Width(m.width - 2).
		Render(prompt + m.input.View() + chips)
}

func (m *Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, m.renderFeatureTag())

	switch m.ctrl.State() {
	case conversation.StateGenerating:
		parts = append(parts, m.theme.ThinkingText.Render("generating"))
	case conversation.StateRevealing:
		parts = append(parts, m.theme.ThinkingText.Render("revealing"))
	}

	if m.flash != "" {
		parts = append(parts, m.theme.HeaderSubtitle.Render(m.flash))
	} else {
		parts = append(parts, m.renderShortcuts())
	}

	return m.theme.StatusBar.
		Width(m.width).
		Render(strings.Join(parts, "  "))
}

func (m *Model) renderFeatureTag() string {
	if m.feature == generate.FeatureNone {
		return m.theme.FeatureInactive.Render("chat")
	}
	return m.theme.FeatureActive.Render(string(m.feature))
}

func (m *Model) renderShortcuts() string {
	var sb strings.Builder
	for i, b := range m.keys.ShortHelp() {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(m.theme.ShortcutKey.Render(b.Help().Key))
		sb.WriteString(" ")
		sb.WriteString(m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	return sb.String()
}
