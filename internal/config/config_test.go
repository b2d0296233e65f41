// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Generator.Provider != "mock" {
		t.Errorf("default provider = %q, want mock", cfg.Generator.Provider)
	}
	if cfg.RevealInterval() != 40*time.Millisecond {
		t.Errorf("default reveal interval = %v, want 40ms", cfg.RevealInterval())
	}
}

func TestValidateRejectsBadProvider(t *testing.T) {
	cfg := Default()
	cfg.Generator.Provider = "carrier-pigeon"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "generator.provider") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := Default()
	cfg.Generator.Provider = "openai"

	if err := cfg.Validate(); err == nil {
		t.Error("openai without api_key should fail validation")
	}

	cfg.Generator.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("openai with api_key should validate: %v", err)
	}
}

func TestValidateRevealIntervalBounds(t *testing.T) {
	cfg := Default()

	cfg.Chat.RevealIntervalMs = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative reveal interval should fail")
	}

	cfg.Chat.RevealIntervalMs = 5000
	if err := cfg.Validate(); err == nil {
		t.Error("reveal interval over 1000ms should fail")
	}

	cfg.Chat.RevealIntervalMs = 40
	if err := cfg.Validate(); err != nil {
		t.Errorf("40ms should validate: %v", err)
	}
}

func TestValidateTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown theme should fail validation")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Generator.Provider = "ollama"
	cfg.Generator.BaseURL = "http://127.0.0.1:11434"
	cfg.Generator.Model = "llama3.2"
	cfg.Chat.RevealIntervalMs = 25
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Generator.Provider != "ollama" {
		t.Errorf("Provider = %q", loaded.Generator.Provider)
	}
	if loaded.Generator.Model != "llama3.2" {
		t.Errorf("Model = %q", loaded.Generator.Model)
	}
	if loaded.Chat.RevealIntervalMs != 25 {
		t.Errorf("RevealIntervalMs = %d", loaded.Chat.RevealIntervalMs)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := SaveTOML(Default(), path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}
}

func TestLoadFixesLoosePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[generator]\nprovider = \"mock\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions not tightened: %o", perm)
	}
}

func TestLoadMissingSectionsGetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[generator]\nprovider = \"mock\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Chat.RevealIntervalMs != 40 {
		t.Errorf("missing chat section should fall back: %d", cfg.Chat.RevealIntervalMs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("missing ui section should fall back: %q", cfg.UI.Theme)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VORGAWALL_PROVIDER", "ollama")
	t.Setenv("VORGAWALL_MODEL", "qwen2.5:7b")
	t.Setenv("VORGAWALL_DATA_DIR", "/tmp/vorgawall-test")
	t.Setenv("VORGAWALL_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Generator.Provider != "ollama" {
		t.Errorf("Provider = %q", cfg.Generator.Provider)
	}
	if cfg.Generator.Model != "qwen2.5:7b" {
		t.Errorf("Model = %q", cfg.Generator.Model)
	}
	if cfg.DataDir != "/tmp/vorgawall-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("generator.provider", "ollama"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cfg.Get("generator.provider")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "ollama" {
		t.Errorf("Get = %v, want ollama", got)
	}

	if err := cfg.Set("chat.reveal_interval_ms", "80"); err != nil {
		t.Fatalf("Set int from string failed: %v", err)
	}
	if cfg.Chat.RevealIntervalMs != 80 {
		t.Errorf("RevealIntervalMs = %d, want 80", cfg.Chat.RevealIntervalMs)
	}

	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set bool from string failed: %v", err)
	}
	if !cfg.UI.CompactMode {
		t.Error("CompactMode should be true")
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get of unknown key should fail")
	}
	if err := cfg.Set("generator.nope", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Generator.Provider = "openai"
	cfg.Generator.APIKey = "sk-supersecret"

	out := cfg.String()
	if strings.Contains(out, "sk-supersecret") {
		t.Error("String() leaked the api key")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should mark the key as redacted")
	}
	if cfg.Generator.APIKey != "sk-supersecret" {
		t.Error("String() must not mutate the original config")
	}
}

func TestResolveDataDirOverride(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/elsewhere"

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir failed: %v", err)
	}
	if dir != "/tmp/elsewhere" {
		t.Errorf("dir = %q", dir)
	}
}

// Run with: go test -race ./internal/config/
func TestGlobalConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	SetGlobal(Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
