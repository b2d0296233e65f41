// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// ask.go - Single question command for the vorgawall CLI.
//
// Sends one question through the normal send cycle and prints the reply.
// The exchange is persisted to the session slot exactly like a TUI send,
// so "vorgawall ask" and the TUI share one history.
//
// Examples:
//   vorgawall ask "What does the Vorgawall warranty cover?"
//   vorgawall ask --feature search "Current shipping times?"
//   vorgawall ask --file order.txt "What went wrong here?"
//   vorgawall ask --session 3f2a "And in blue?"

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vorgawall/assistant-tui/internal/config"
	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/storage"
)

// MaxFileSize caps --file includes at 50KB.
const MaxFileSize = 50 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content, falling back to the raw text
// when the renderer is unavailable or fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, rendering markdown only on a TTY so piped
// output stays unformatted.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Print(response)
	}
}

// =============================================================================
// FILE INCLUSION
// =============================================================================

// readFileForContext reads a file and wraps it for inclusion in a question.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("\n--- File: %s ---\n", path))
	builder.Write(content)
	builder.WriteString("\n--- End of file ---\n")

	return builder.String(), nil
}

// parseFeature validates a --feature value.
func parseFeature(name string) (generate.Feature, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return generate.FeatureNone, nil
	case "search":
		return generate.FeatureSearch, nil
	case "image":
		return generate.FeatureImage, nil
	case "article":
		return generate.FeatureArticle, nil
	default:
		return generate.FeatureNone, fmt.Errorf("unknown feature: %s (expected search, image or article)", name)
	}
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("no question given; usage: vorgawall ask \"question\"")
	}

	feature, err := parseFeature(args.Feature)
	if err != nil {
		return err
	}

	if args.File != "" {
		fileContent, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		query += "\n" + fileContent
	}

	cfg := config.Global()
	if args.Model != "" {
		cfg.Generator.Model = args.Model
	}

	gen, err := generate.New(cfg.GeneratorOptions())
	if err != nil {
		return err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	store := storage.NewSessionStore(dataDir)

	// Words arrive pre-revealed on stdout; no cadence needed here.
	ctrl := conversation.NewController(store, gen, conversation.Config{
		RevealInterval: time.Millisecond,
	})
	defer ctrl.Close()

	// Continue a saved session when asked, otherwise start fresh
	sessionID := ""
	if args.Session != "" {
		conv, err := resolveSession(store, args.Session)
		if err != nil {
			return err
		}
		sessionID = conv.ID
	}
	ctrl.LoadOrCreate(sessionID)

	// Ctrl+C cancels the in-flight generation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	events, err := ctrl.SendMessage(ctx, query, nil, feature)
	if err != nil {
		return err
	}

	// Markdown needs the complete reply; otherwise stream the words as
	// they are revealed.
	useMarkdown := IsStdoutTTY()
	printed := 0

	var final *conversation.Event
	for ev := range events {
		if ev.Done {
			final = &ev
			continue
		}
		if !useMarkdown && len(ev.Partial) > printed {
			fmt.Print(ev.Partial[printed:])
			printed = len(ev.Partial)
		}
	}

	if final == nil {
		// Cancelled before completion
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("reply was interrupted")
	}

	if final.Err != nil && !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %v\n", WarningStyle.Render("[Fallback]"), final.Err)
	}

	if useMarkdown {
		displayResponse(final.Message.Content)
	} else if final.Message != nil && len(final.Message.Content) > printed {
		fmt.Print(final.Message.Content[printed:])
	}
	fmt.Println()

	if !args.Quiet {
		if active := ctrl.Active(); active != nil && active.ID != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n",
				DimStyle.Render("Saved to session"),
				AccentStyle.Render(shortID(active.ID)))
		}
	}

	return nil
}

// shortID abbreviates a session id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
