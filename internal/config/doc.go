// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for the Prism TUI.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GatewayConfig: Prism gateway connection settings
//   - RenderingConfig: Assistant message rendering options
//   - RevealConfig: Typewriter reveal tuning
//   - PollConfig: Task status polling ladder
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PRISM_*)
//   - ~/.prism/config.toml
//   - ~/.prism/config.json
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
//	model := cfg.DefaultModel
//	tick := cfg.RevealTick()
//
// A Watcher can be attached to reload the global config when the file
// changes on disk.
package config
