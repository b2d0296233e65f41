// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/ui/styles"
	"github.com/vorgawall/assistant-tui/internal/util"
)

// =============================================================================
// SESSION LIST (HISTORY OVERLAY)
// =============================================================================

// SessionList renders the conversation history overlay. Selection state
// lives in the chat model; this component only draws.
type SessionList struct {
	Sessions []*model.Conversation
	Selected int
	Width    int
	Height   int
	theme    *styles.Theme
}

// NewSessionList creates a session list component.
func NewSessionList(theme *styles.Theme) *SessionList {
	return &SessionList{Width: 80, Height: 24, theme: theme}
}

// SetSize sets the layout dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.Width = width
	l.Height = height
}

// SetSessions replaces the listed conversations; most recent first, the
// order the store hands them back.
func (l *SessionList) SetSessions(sessions []*model.Conversation) {
	l.Sessions = sessions
	if l.Selected >= len(sessions) {
		l.Selected = len(sessions) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
}

// MoveUp moves the selection toward the most recent conversation.
func (l *SessionList) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves the selection toward the oldest conversation.
func (l *SessionList) MoveDown() {
	if l.Selected < len(l.Sessions)-1 {
		l.Selected++
	}
}

// Current returns the selected conversation, or nil when the list is empty.
func (l *SessionList) Current() *model.Conversation {
	if len(l.Sessions) == 0 || l.Selected < 0 || l.Selected >= len(l.Sessions) {
		return nil
	}
	return l.Sessions[l.Selected]
}

// View renders the overlay centered in the available space.
func (l *SessionList) View() string {
	var sb strings.Builder

	sb.WriteString(l.theme.SessionTitle.Render("Conversations"))
	sb.WriteString("\n\n")

	if len(l.Sessions) == 0 {
		sb.WriteString(l.theme.SessionMeta.Render("No saved conversations yet."))
	} else {
		maxRows := l.Height - 10
		if maxRows < 3 {
			maxRows = 3
		}

		// Keep the selection visible.
		start := 0
		if l.Selected >= maxRows {
			start = l.Selected - maxRows + 1
		}
		end := minInt(start+maxRows, len(l.Sessions))

		for i := start; i < end; i++ {
			sb.WriteString(l.renderRow(i))
			if i < end-1 {
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(l.theme.ShortcutKey.Render("enter"))
	sb.WriteString(l.theme.ShortcutDesc.Render(" open  "))
	sb.WriteString(l.theme.ShortcutKey.Render("d"))
	sb.WriteString(l.theme.ShortcutDesc.Render(" delete  "))
	sb.WriteString(l.theme.ShortcutKey.Render("esc"))
	sb.WriteString(l.theme.ShortcutDesc.Render(" close"))

	box := l.theme.SessionList.Render(sb.String())
	return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, box)
}

func (l *SessionList) renderRow(i int) string {
	conv := l.Sessions[i]

	title := util.TruncateRunes(conv.Title, 36)
	meta := RelativeTime(conv.UpdatedAt)
	row := title
	if meta != "" {
		row += "  " + l.theme.SessionMeta.Render(meta)
	}

	if i == l.Selected {
		return l.theme.SessionItemSelected.Render(row)
	}
	return l.theme.SessionItem.Render(row)
}
