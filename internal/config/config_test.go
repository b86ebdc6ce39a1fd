// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Poll.LadderSecs) != 3 {
		t.Errorf("default poll ladder has %d rungs, want 3", len(cfg.Poll.LadderSecs))
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
default_model = "anthropic/claude-sonnet-4-5"

[gateway]
base_url = "https://prism.example.com"

[reveal]
base_chunk_size = 4
max_chunk_size = 32

[poll]
ladder_secs = [1, 2, 5]
max_failures = 3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.DefaultModel != "anthropic/claude-sonnet-4-5" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Gateway.BaseURL != "https://prism.example.com" {
		t.Errorf("BaseURL = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Reveal.BaseChunkSize != 4 || cfg.Reveal.MaxChunkSize != 32 {
		t.Errorf("reveal = %+v", cfg.Reveal)
	}
	if got := cfg.PollLadder(); len(got) != 3 || got[2] != 5*time.Second {
		t.Errorf("PollLadder = %v", got)
	}
	// Unset sections keep defaults.
	if cfg.Events.Capacity != 500 {
		t.Errorf("Events.Capacity = %d, want default 500", cfg.Events.Capacity)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"ui": {"theme": "light", "carousel_interval_millis": 2500}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.CarouselInterval() != 2500*time.Millisecond {
		t.Errorf("CarouselInterval = %v", cfg.CarouselInterval())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"bad gateway url", func(c *Config) { c.Gateway.BaseURL = "not a url" }},
		{"max chunk below base", func(c *Config) {
			c.Reveal.BaseChunkSize = 10
			c.Reveal.MaxChunkSize = 4
		}},
		{"zero ladder rung", func(c *Config) { c.Poll.LadderSecs = []int{1, 0, 3} }},
		{"negative max failures", func(c *Config) { c.Poll.MaxFailures = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PRISM_MODEL", "openai/gpt-4o")
	t.Setenv("PRISM_GATEWAY_URL", "https://gw.internal:9443")
	t.Setenv("PRISM_NO_REVEAL", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.DefaultModel != "openai/gpt-4o" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Gateway.BaseURL != "https://gw.internal:9443" {
		t.Errorf("BaseURL = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Reveal.Enabled {
		t.Error("Reveal.Enabled should be false with PRISM_NO_REVEAL=true")
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Gateway.APIKey = "sk-prism-secret"

	out := cfg.String()
	if strings.Contains(out, "sk-prism-secret") {
		t.Error("String() leaked the API key")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should redact the API key")
	}
	// Redaction must not mutate the original.
	if cfg.Gateway.APIKey != "sk-prism-secret" {
		t.Error("String() mutated the config")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Poll.LadderSecs[0] = 99

	if cfg.Poll.LadderSecs[0] == 99 {
		t.Error("Clone shares the ladder slice with the original")
	}
}

func TestSaveAndReloadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	cfg := Default()
	cfg.DefaultModel = "mistral/mistral-large"
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.DefaultModel != "mistral/mistral-large" {
		t.Errorf("round trip lost DefaultModel: %q", loaded.DefaultModel)
	}
}

// TestGlobalConcurrentAccess checks Global/SetGlobal/ReloadGlobal under
// concurrent use. Run with -race.
func TestGlobalConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

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
