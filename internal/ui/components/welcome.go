// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vorgawall/assistant-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome renders the empty-conversation greeting.
type Welcome struct {
	Width  int
	Height int
	theme  *styles.Theme
}

// NewWelcome creates the welcome screen component.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{Width: 80, Height: 24, theme: theme}
}

// SetSize sets the layout dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

var welcomeSuggestions = []string{
	"How do I connect my shop to the unified API?",
	"What does Vorgawall pricing look like?",
	"Help me write a product description",
	"How does global logistics work?",
}

// View renders the welcome box centered in the available space.
func (w *Welcome) View() string {
	var sb strings.Builder

	sb.WriteString(w.theme.WelcomeLogo.Render("Vorgawall Assistant"))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Ask anything about building and running your shop."))
	sb.WriteString("\n\n")

	for _, s := range welcomeSuggestions {
		sb.WriteString(w.theme.WelcomeInfo.Render("  · " + s))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomeKey.Render("enter"))
	sb.WriteString(w.theme.WelcomeInfo.Render(" send  "))
	sb.WriteString(w.theme.WelcomeKey.Render("ctrl+h"))
	sb.WriteString(w.theme.WelcomeInfo.Render(" history  "))
	sb.WriteString(w.theme.WelcomeKey.Render("ctrl+c"))
	sb.WriteString(w.theme.WelcomeInfo.Render(" quit"))

	box := w.theme.WelcomeBox.Render(sb.String())

	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
}
