// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package config provides configuration loading and management for the
// Vorgawall assistant.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeneratorConfig: Reply generator provider settings
//   - ChatConfig: Conversation behavior tuning
//   - UIConfig: Terminal UI settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (VORGAWALL_*)
//   - ~/.vorgawall/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	provider := cfg.Generator.Provider
//	theme := cfg.UI.Theme
package config
