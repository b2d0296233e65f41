// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package cli parses command-line arguments and runs the non-TUI commands
// of the Vorgawall assistant.
//
// Commands:
//
//	vorgawall                    Start the terminal UI (default)
//	vorgawall ask "question"     Ask a single question and print the reply
//	vorgawall voice              Interactive voice-style REPL (not persisted)
//	vorgawall history [sub]      Manage saved chat sessions
//	vorgawall config [sub]       Show and edit configuration
//	vorgawall version            Print version information
//
// Output adapts to the terminal: replies render as Markdown on a TTY and
// pass through unformatted when piped, and all color honors NO_COLOR.
package cli
