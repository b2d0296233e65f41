// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// voice.go - Voice-style REPL for the vorgawall CLI.
//
// Each line is treated as a voice transcript and answered with a short,
// speakable reply. Nothing here touches the session slot: voice exchanges
// are ephemeral, unlike ask and the TUI.
//
// Interactive commands:
//   /help, /h           Show available commands
//   /quit, /q           Exit
//   Ctrl+C              Cancel the current reply
//   Ctrl+D              Exit

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/vorgawall/assistant-tui/internal/config"
	"github.com/vorgawall/assistant-tui/internal/generate"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// VoiceCLI wraps liner with persistent input history, so arrow keys recall
// earlier transcripts across runs.
type VoiceCLI struct {
	line        *liner.State
	historyFile string
}

// NewVoiceCLI creates the liner state and loads saved history.
func NewVoiceCLI() *VoiceCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "voice_history")

	cli := &VoiceCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *VoiceCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation.
func (c *VoiceCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *VoiceCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *VoiceCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// VOICE HANDLER
// =============================================================================

// HandleVoiceCommand handles the "voice" command.
func HandleVoiceCommand(args Args) error {
	if err := RequiresTTY("run the voice REPL"); err != nil {
		return err
	}

	cfg := config.Global()
	if args.Model != "" {
		cfg.Generator.Model = args.Model
	}

	gen, err := generate.New(cfg.GeneratorOptions())
	if err != nil {
		return err
	}

	input := NewVoiceCLI()
	defer input.Close()

	if !args.Quiet {
		fmt.Println()
		fmt.Println(TitleStyle.Render("vorgawall voice"))
		fmt.Println(DimStyle.Render("Type what you would say. Replies are short and are not saved."))
		fmt.Println(DimStyle.Render("Commands: /help, /quit"))
		fmt.Println()
	}

	// Ctrl+C during generation cancels that reply only
	var cancelCurrent context.CancelFunc
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if cancelCurrent != nil {
				cancelCurrent()
			}
		}
	}()

	for {
		line, err := input.ReadInput(AccentStyle.Render("you> "))
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D
			fmt.Println()
			if !args.Quiet {
				fmt.Println(DimStyle.Render("Goodbye!"))
			}
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "/help", "/h", "/?":
			fmt.Println(DimStyle.Render("  /help        Show this help"))
			fmt.Println(DimStyle.Render("  /quit        Exit"))
			fmt.Println(DimStyle.Render("  Ctrl+C       Cancel the current reply"))
			continue
		case "/quit", "/q", "/exit", "exit", "quit":
			if !args.Quiet {
				fmt.Println(DimStyle.Render("Goodbye!"))
			}
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelCurrent = cancel

		reply, err := gen.GenerateVoiceReply(ctx, line)
		cancelCurrent = nil
		cancel()

		if err != nil || strings.TrimSpace(reply) == "" {
			if err != nil && args.Verbose {
				fmt.Fprintf(os.Stderr, "%s %v\n", WarningStyle.Render("[Fallback]"), err)
			}
			reply = generate.FallbackVoiceReply
		}

		fmt.Println(ValueStyle.Render(WrapText(reply, GetTerminalWidth())))
		fmt.Println()
	}
}
