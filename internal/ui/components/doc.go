// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

/*
Package components provides the visual UI components for the Vorgawall
assistant TUI.

Each component is a small, stateless renderer that takes a theme and
produces a styled string. The chat model composes them into its view:

  - Header: application title bar with the active conversation
  - MessageBubble: a single user or assistant message
  - CodeBlock: syntax-highlighted fenced code
  - Welcome: the empty-conversation greeting screen
  - SessionList: the conversation history overlay

Components never touch the store or the controller; they render what
they are handed.
*/
package components
