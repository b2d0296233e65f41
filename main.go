// vorgawall - Vorgawall Assistant for the terminal.
//
// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vorgawall/assistant-tui/internal/cli"
	"github.com/vorgawall/assistant-tui/internal/config"
	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/logging"
	"github.com/vorgawall/assistant-tui/internal/storage"
	"github.com/vorgawall/assistant-tui/internal/ui/chat"
	"github.com/vorgawall/assistant-tui/internal/ui/styles"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Logging goes to a file under the data dir; stdout stays clean for
	// command output and the TUI.
	cfg := config.Global()
	if dataDir, err := cfg.ResolveDataDir(); err == nil {
		logging.Setup(dataDir, cfg.Logging.Level)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAskCommand(args))
	case cli.CmdVoice:
		exitOnError(cli.HandleVoiceCommand(args))
	case cli.CmdHistory:
		exitOnError(cli.HandleHistoryCommand(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfigCommand(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// exitOnError prints the error and exits non-zero, the common tail of every
// command handler.
func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full stack and hands the terminal to Bubble Tea.
func runTUI(args cli.Args) {
	cfg := config.Global()
	if args.Model != "" {
		cfg.Generator.Model = args.Model
	}

	gen, err := generate.New(cfg.GeneratorOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewSessionStore(dataDir)
	ctrl := conversation.NewController(store, gen, conversation.Config{
		RevealInterval: cfg.RevealInterval(),
	})

	m := chat.New(ctrl, store, styles.NewTheme(), chat.Options{DataDir: dataDir})
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
