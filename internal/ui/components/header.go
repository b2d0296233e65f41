// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vorgawall/assistant-tui/internal/ui/styles"
	"github.com/vorgawall/assistant-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the application title bar.
type Header struct {
	Title    string
	Subtitle string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the application branding.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Vorgawall Assistant",
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSubtitle sets the line under the title, normally the active
// conversation's title.
func (h *Header) SetSubtitle(subtitle string) {
	h.Subtitle = subtitle
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)

	line := title
	if h.Subtitle != "" {
		sub := util.TruncateRunes(h.Subtitle, 40)
		line = title + "  " + h.theme.HeaderSubtitle.Render(sub)
	}

	return h.theme.Header.
		Width(h.Width - 2).
		Align(lipgloss.Center).
		Render(line)
}
