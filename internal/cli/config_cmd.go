// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// config_cmd.go - Configuration command for the vorgawall CLI.
//
// Subcommands:
//   show (default)   Show the current configuration
//   get <key>        Print one value (dot notation, e.g. generator.model)
//   set <key> <v>    Set a value and save the config file
//   keys             List available keys
//   path             Print the config file location

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vorgawall/assistant-tui/internal/config"
	"github.com/vorgawall/assistant-tui/internal/generate"
)

// HandleConfigCommand handles the "config" command.
func HandleConfigCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return configShow()
	case "get":
		return configGet(parser.Positional(1))
	case "set":
		return configSet(parser.Positional(1), parser.Positional(2))
	case "keys", "list":
		return configKeys()
	case "path":
		return configPath()
	default:
		return fmt.Errorf("unknown config subcommand: %s (try show, get, set, keys, path)", parser.Subcommand())
	}
}

func configShow() error {
	cfg := config.Global()

	fmt.Println()
	fmt.Println(TitleStyle.Render("Vorgawall Configuration"))
	fmt.Print(cfg.String())
	fmt.Println()

	printGeneratorHealth(cfg)

	if path, err := config.ConfigPath(); err == nil {
		fmt.Println(DimStyle.Render("Config file: " + path))
	}
	return nil
}

// healthChecker is implemented by providers that can probe their backend
// without sending a message.
type healthChecker interface {
	Healthy(ctx context.Context) bool
}

// printGeneratorHealth reports backend reachability for providers that
// expose a probe. Providers without one (mock, hosted) print nothing.
func printGeneratorHealth(cfg *config.Config) {
	gen, err := generate.New(cfg.GeneratorOptions())
	if err != nil {
		return
	}

	hc, ok := gen.(healthChecker)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if hc.Healthy(ctx) {
		fmt.Printf("%s%s\n", LabelStyle.Render("Generator"), SuccessStyle.Render("reachable"))
	} else {
		fmt.Printf("%s%s\n", LabelStyle.Render("Generator"), WarningStyle.Render("not reachable"))
	}
}

func configGet(key string) error {
	if key == "" {
		return fmt.Errorf("key required; usage: vorgawall config get <key>")
	}

	value, err := config.Global().Get(key)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func configSet(key, raw string) error {
	if key == "" || raw == "" {
		return fmt.Errorf("usage: vorgawall config set <key> <value>")
	}

	// Coerce the string to the field's shape: int, bool, then string
	var value interface{} = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := ParseBoolString(raw); err == nil {
		value = b
	}

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	// Saved even when incomplete, so provider and api_key can be set in
	// either order. The warning points at what is still missing.
	if err := cfg.Validate(); err != nil {
		fmt.Printf("%s %v\n", WarningStyle.Render("[Warning]"), err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s %s = %v\n", SuccessStyle.Render("[OK]"), AccentStyle.Render(key), value)
	return nil
}

func configKeys() error {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Configuration Keys"))
	for _, key := range config.GetAllKeys() {
		fmt.Println("  " + AccentStyle.Render(key))
	}
	fmt.Println()
	return nil
}

func configPath() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
