// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// history.go - Saved session management for the vorgawall CLI.
//
// Subcommands:
//   list (default)   List saved sessions, newest first
//   search <text>    Search titles and message content
//   show <id>        Print a session transcript
//   export <id>      Export a session as Markdown
//   delete <id>      Delete a session (--confirm required)
//   clear            Delete all sessions (--confirm required)
//
// Session ids accept unique prefixes, so "history show 3f2a" works.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vorgawall/assistant-tui/internal/config"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/storage"
	"github.com/vorgawall/assistant-tui/internal/util"
)

// =============================================================================
// HISTORY HANDLER
// =============================================================================

// HandleHistoryCommand handles the "history" command.
func HandleHistoryCommand(args Args) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return historyList(store, args.JSON || parser.BoolFlag("json"))
	case "search":
		return historySearch(store, JoinPositionalArgs(parser, 1))
	case "show":
		return historyShow(store, parser.Positional(1))
	case "export":
		return historyExport(store, parser.Positional(1), parser.Flag("output"))
	case "delete", "rm":
		return historyDelete(store, parser.Positional(1), parser.BoolFlag("confirm"))
	case "clear":
		return historyClear(store, parser.BoolFlag("confirm"))
	default:
		return fmt.Errorf("unknown history subcommand: %s (try list, search, show, export, delete, clear)", parser.Subcommand())
	}
}

// openStore builds the session store from the resolved data directory.
func openStore() (*storage.SessionStore, error) {
	dataDir, err := config.Global().ResolveDataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewSessionStore(dataDir), nil
}

// resolveSession finds a session by id or unique id prefix.
func resolveSession(store *storage.SessionStore, idOrPrefix string) (*model.Conversation, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("session id required")
	}

	if conv, ok := store.FindByID(idOrPrefix); ok {
		return conv, nil
	}

	var matches []*model.Conversation
	for _, conv := range store.List() {
		if strings.HasPrefix(conv.ID, idOrPrefix) {
			matches = append(matches, conv)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no session matches %q", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("session id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

// sessionSummary is the JSON shape for history list output.
type sessionSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Messages  int    `json:"messages"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func historyList(store *storage.SessionStore, asJSON bool) error {
	sessions := store.List()

	if asJSON {
		summaries := make([]sessionSummary, 0, len(sessions))
		for _, conv := range sessions {
			summaries = append(summaries, sessionSummary{
				ID:        conv.ID,
				Title:     conv.Title,
				Messages:  len(conv.Messages),
				CreatedAt: conv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				UpdatedAt: conv.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(sessions) == 0 {
		fmt.Println(DimStyle.Render("No saved sessions yet. Start one with: vorgawall ask \"hello\""))
		return nil
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Saved Sessions"))

	for _, conv := range sessions {
		title := util.TruncateRunes(conv.Title, 40)
		fmt.Printf("  %s  %s  %s\n",
			AccentStyle.Render(shortID(conv.ID)),
			ValueStyle.Render(fmt.Sprintf("%-42s", title)),
			DimStyle.Render(fmt.Sprintf("%d messages, %s", len(conv.Messages), conv.UpdatedAt.Format("2006-01-02 15:04"))))
	}

	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("%d session(s). Show one with: vorgawall history show <id>", len(sessions))))
	return nil
}

func historySearch(store *storage.SessionStore, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("search text required; usage: vorgawall history search <text>")
	}

	matches := store.Search(query)
	if len(matches) == 0 {
		fmt.Println(DimStyle.Render(fmt.Sprintf("No sessions match %q", query)))
		return nil
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Sessions matching %q", query)))
	for _, conv := range matches {
		fmt.Printf("  %s  %s\n",
			AccentStyle.Render(shortID(conv.ID)),
			ValueStyle.Render(util.TruncateRunes(conv.Title, 48)))
	}
	fmt.Println()
	return nil
}

func historyShow(store *storage.SessionStore, idOrPrefix string) error {
	conv, err := resolveSession(store, idOrPrefix)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(conv.Title))
	fmt.Println(DimStyle.Render(fmt.Sprintf("%s, %d messages, started %s",
		conv.ID, len(conv.Messages), conv.CreatedAt.Format("2006-01-02 15:04"))))
	fmt.Println(RenderSeparator())

	for _, msg := range conv.Messages {
		fmt.Println()
		switch msg.Role {
		case model.RoleUser:
			fmt.Println(AccentStyle.Render("You:"))
		default:
			fmt.Println(SectionStyle.Render("Assistant:"))
		}
		fmt.Println(WrapText(msg.Content, GetTerminalWidth()))

		for _, att := range msg.Attachments {
			fmt.Println(DimStyle.Render("  [" + string(att.Kind) + "] " + att.DisplayName))
		}
	}

	fmt.Println()
	return nil
}

func historyExport(store *storage.SessionStore, idOrPrefix, outputPath string) error {
	conv, err := resolveSession(store, idOrPrefix)
	if err != nil {
		return err
	}

	markdown := storage.ExportMarkdown(conv)

	if outputPath == "" {
		fmt.Print(markdown)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("%s %s\n", SuccessStyle.Render("[OK]"), "Exported to "+outputPath)
	return nil
}

func historyDelete(store *storage.SessionStore, idOrPrefix string, confirmed bool) error {
	conv, err := resolveSession(store, idOrPrefix)
	if err != nil {
		return err
	}

	if !confirmed {
		return fmt.Errorf("deleting %q requires --confirm", conv.Title)
	}

	if err := store.Remove(conv.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("%s Deleted %s\n", SuccessStyle.Render("[OK]"), AccentStyle.Render(conv.Title))
	return nil
}

func historyClear(store *storage.SessionStore, confirmed bool) error {
	count := len(store.List())
	if count == 0 {
		fmt.Println(DimStyle.Render("No saved sessions to clear."))
		return nil
	}

	if !confirmed {
		return fmt.Errorf("clearing %d session(s) requires --confirm", count)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	fmt.Printf("%s Cleared %d session(s)\n", SuccessStyle.Render("[OK]"), count)
	return nil
}
