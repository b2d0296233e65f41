// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdVoice
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string

	// Command-specific
	Query      string
	File       string
	Session    string
	Feature    string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `vorgawall - Vorgawall Assistant for the terminal

A single-slot chat client: one collection of saved conversations, a
word-by-word reveal, and a session history that survives restarts.

Usage:
  vorgawall                        Start the terminal UI (default)
  vorgawall ask "question"         Ask a single question
  vorgawall voice                  Interactive voice-style REPL
  vorgawall history [subcommand]   Manage saved chat sessions
  vorgawall config [subcommand]    Configuration
  vorgawall version                Show version information
  vorgawall help                   Show this help

Ask:
  vorgawall ask "What is Vorgawall?"
  vorgawall ask --feature search "Latest release notes?"
  vorgawall ask --file notes.md "Summarize this"
  vorgawall ask --session <id> "And a follow-up"
    -f, --file FILE       Include file content with the question
    -m, --model NAME      Use a specific model (overrides config)
    --feature NAME        Feature context: search, image, article
    --session ID          Continue a saved session (prefix accepted)

Voice:
  vorgawall voice                  Start the REPL (replies are not saved)

History:
  vorgawall history list           List saved sessions (default)
    --json                         Output as JSON
  vorgawall history search <text>  Search titles and message content
  vorgawall history show <id>      Print a session transcript
  vorgawall history export <id>    Export a session as Markdown
    --output FILE                  Write to file (default: stdout)
  vorgawall history delete <id>    Delete a session
    --confirm                      Required confirmation flag
  vorgawall history clear          Delete all sessions
    --confirm                      Required confirmation flag

Config:
  vorgawall config show            Show current configuration (default)
  vorgawall config get <key>       Get a value (e.g. generator.model)
  vorgawall config set <key> <v>   Set a value and save
  vorgawall config keys            List available keys
  vorgawall config path            Print config file location

Global flags:
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output
  --json           JSON output where supported
  --model NAME     Override the configured model

Environment:
  VORGAWALL_PROVIDER, VORGAWALL_BASE_URL, VORGAWALL_API_KEY,
  VORGAWALL_MODEL, VORGAWALL_DATA_DIR, VORGAWALL_THEME,
  VORGAWALL_LOG_LEVEL override the config file.
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("vorgawall version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseFrom(os.Args[1:])
}

// ParseFrom parses the given argument list. Split out from Parse so tests
// can drive it without touching os.Args.
func ParseFrom(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	// No arguments: run the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "voice":
		return CmdVoice, parsedArgs

	case "history", "sessions":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdHistory, parsedArgs

	case "config":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown word: treat the whole line as a question
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsedArgs, parsedArgs.Raw)
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--model", "-m":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask-specific flags; everything left joins into Query.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case "--feature":
			if i+1 < len(remaining) {
				i++
				args.Feature = remaining[i]
			}
		case "--session":
			if i+1 < len(remaining) {
				i++
				args.Session = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--feature="):
				args.Feature = strings.TrimPrefix(arg, "--feature=")
			case strings.HasPrefix(arg, "--session="):
				args.Session = strings.TrimPrefix(arg, "--session=")
			default:
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version":%q,"git_commit":%q,"build_date":%q,"go_version":%q}`+"\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
