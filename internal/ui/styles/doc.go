// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

/*
Package styles provides the visual styling system for the Vorgawall
assistant TUI.

This package defines the complete color palette and style set used
throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Indigo - Primary brand accent for assistant messages and selections
  - Teal - Secondary accent for commands and user highlights
  - Emerald - Success states
  - Amber - Warnings
  - Rose - Errors and delete confirmations

## Semantic Colors

Message bubbles and UI elements use semantic color tokens:

	UserBubbleBg      - Background for user messages
	UserBubbleFg      - Text color for user messages
	AssistantBubbleBg - Background for assistant messages
	AssistantBubbleFg - Text color for assistant messages

# Theme (theme.go)

The Theme struct holds every configured lipgloss style. Create one with
NewTheme, which detects the terminal's color profile and dark/light
background, then pass it down to components:

	theme := styles.NewTheme()
	header := theme.Header.Render("Vorgawall Assistant")

Theme also tracks layout dimensions for responsive rendering; call
SetSize from the window size handler and branch on GetLayoutMode.
*/
package styles
