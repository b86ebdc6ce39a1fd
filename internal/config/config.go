// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete Prism TUI configuration.
type Config struct {
	// General settings
	Version      string `toml:"version" json:"version"`
	DefaultModel string `toml:"default_model" json:"default_model"`

	// Gateway connection configuration
	Gateway GatewayConfig `toml:"gateway" json:"gateway"`

	// Rendering options for assistant messages
	Rendering RenderingConfig `toml:"rendering" json:"rendering"`

	// Typewriter reveal configuration
	Reveal RevealConfig `toml:"reveal" json:"reveal"`

	// Task status polling configuration
	Poll PollConfig `toml:"poll" json:"poll"`

	// Live event log configuration
	Events EventsConfig `toml:"events" json:"events"`

	// Response cache configuration
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// GatewayConfig contains Prism gateway connection settings.
type GatewayConfig struct {
	// BaseURL is the gateway root URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// APIKey is the bearer key for the gateway
	APIKey string `toml:"api_key" json:"api_key"`
	// RequestsPerSecond caps outbound request rate (0 = default)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// TimeoutSecs is the non-streaming request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// RenderingConfig controls how assistant content is rendered.
type RenderingConfig struct {
	// CollapseReasoning folds reasoning spans behind a toggle
	CollapseReasoning bool `toml:"collapse_reasoning" json:"collapse_reasoning"`
	// ShowReasoning is the initial state of the reasoning toggle
	ShowReasoning bool `toml:"show_reasoning" json:"show_reasoning"`
	// EnableMarkdown renders assistant text through the markdown renderer
	EnableMarkdown bool `toml:"enable_markdown" json:"enable_markdown"`
	// EnableMath enables inline math formatting
	EnableMath bool `toml:"enable_math" json:"enable_math"`
}

// RevealConfig controls the typewriter reveal of streamed responses.
type RevealConfig struct {
	// Enabled turns the typewriter effect on or off
	Enabled bool `toml:"enabled" json:"enabled"`
	// BaseChunkSize is the runes revealed per tick at steady state
	BaseChunkSize int `toml:"base_chunk_size" json:"base_chunk_size"`
	// MaxChunkSize caps per-tick reveal during catch-up
	MaxChunkSize int `toml:"max_chunk_size" json:"max_chunk_size"`
	// AccelerateAtRemaining is the backlog size that triggers catch-up
	AccelerateAtRemaining int `toml:"accelerate_at_remaining" json:"accelerate_at_remaining"`
	// TickMillis is the reveal tick interval in milliseconds
	TickMillis int `toml:"tick_millis" json:"tick_millis"`
}

// PollConfig controls task status polling.
type PollConfig struct {
	// LadderSecs is the backoff ladder in seconds; the last rung holds
	LadderSecs []int `toml:"ladder_secs" json:"ladder_secs"`
	// MaxFailures stops polling after this many consecutive fetch
	// failures (0 = keep polling)
	MaxFailures int `toml:"max_failures" json:"max_failures"`
}

// EventsConfig controls the live event log.
type EventsConfig struct {
	// Capacity is the maximum retained event records
	Capacity int `toml:"capacity" json:"capacity"`
	// MaxMessageKB bounds a single inbound websocket frame
	MaxMessageKB int `toml:"max_message_kb" json:"max_message_kb"`
}

// CacheConfig contains response cache configuration.
type CacheConfig struct {
	// Enabled controls whether caching is active
	Enabled bool `toml:"enabled" json:"enabled"`
	// TTLHours is the time-to-live for cache entries in hours
	TTLHours int `toml:"ttl_hours" json:"ttl_hours"`
	// RedisURL switches the cache to a shared redis backend when set
	RedisURL string `toml:"redis_url" json:"redis_url"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowTokens displays token counts in the UI
	ShowTokens bool `toml:"show_tokens" json:"show_tokens"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// CarouselIntervalMillis is the preview rotation cadence
	CarouselIntervalMillis int `toml:"carousel_interval_millis" json:"carousel_interval_millis"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:      "1.0.0",
		DefaultModel: "openai/gpt-4o-mini",

		Gateway: GatewayConfig{
			BaseURL:           "http://localhost:8090",
			APIKey:            "",
			RequestsPerSecond: 10,
			TimeoutSecs:       30,
		},

		Rendering: RenderingConfig{
			CollapseReasoning: true,
			ShowReasoning:     false,
			EnableMarkdown:    true,
			EnableMath:        false,
		},

		Reveal: RevealConfig{
			Enabled:               true,
			BaseChunkSize:         2,
			MaxChunkSize:          24,
			AccelerateAtRemaining: 400,
			TickMillis:            30,
		},

		Poll: PollConfig{
			LadderSecs:  []int{1, 2, 3},
			MaxFailures: 0,
		},

		Events: EventsConfig{
			Capacity:     500,
			MaxMessageKB: 512,
		},

		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
			RedisURL: "",
		},

		UI: UIConfig{
			Theme:                  "dark",
			ShowTokens:             true,
			CompactMode:            false,
			CarouselIntervalMillis: 1800,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the Prism configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".prism"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 since they can carry the gateway API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finishLoad(cfg)
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# prism configuration file")
	fmt.Fprintln(file, "# Generated by prism - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file. The write is atomic
// so a crash mid-save cannot corrupt an existing config.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION AND DEFAULTS
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gateway.BaseURL != "" {
		if u, err := url.Parse(c.Gateway.BaseURL); err != nil || u.Scheme == "" {
			errs = append(errs, ValidationError{
				Field:   "gateway.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Gateway.BaseURL),
			})
		}
	}
	if c.Gateway.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "gateway.requests_per_second",
			Message: "must be non-negative",
		})
	}

	if c.Reveal.BaseChunkSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "reveal.base_chunk_size",
			Message: "must be non-negative",
		})
	}
	if c.Reveal.MaxChunkSize != 0 && c.Reveal.MaxChunkSize < c.Reveal.BaseChunkSize {
		errs = append(errs, ValidationError{
			Field:   "reveal.max_chunk_size",
			Message: fmt.Sprintf("must be at least base_chunk_size (%d)", c.Reveal.BaseChunkSize),
		})
	}

	for i, secs := range c.Poll.LadderSecs {
		if secs <= 0 {
			errs = append(errs, ValidationError{
				Field:   "poll.ladder_secs",
				Message: fmt.Sprintf("rung %d must be positive, got %d", i, secs),
			})
		}
	}
	if c.Poll.MaxFailures < 0 {
		errs = append(errs, ValidationError{
			Field:   "poll.max_failures",
			Message: "must be non-negative",
		})
	}

	if c.Events.Capacity < 0 {
		errs = append(errs, ValidationError{
			Field:   "events.capacity",
			Message: "must be non-negative",
		})
	}

	if c.Cache.TTLHours < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.ttl_hours",
			Message: "must be non-negative",
		})
	}
	if c.Cache.RedisURL != "" {
		if _, err := url.Parse(c.Cache.RedisURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "cache.redis_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills in defaults for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.DefaultModel == "" {
		c.DefaultModel = defaults.DefaultModel
	}

	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = defaults.Gateway.BaseURL
	}
	if c.Gateway.RequestsPerSecond == 0 {
		c.Gateway.RequestsPerSecond = defaults.Gateway.RequestsPerSecond
	}
	if c.Gateway.TimeoutSecs == 0 {
		c.Gateway.TimeoutSecs = defaults.Gateway.TimeoutSecs
	}

	if c.Reveal.BaseChunkSize == 0 {
		c.Reveal.BaseChunkSize = defaults.Reveal.BaseChunkSize
	}
	if c.Reveal.MaxChunkSize == 0 {
		c.Reveal.MaxChunkSize = defaults.Reveal.MaxChunkSize
	}
	if c.Reveal.AccelerateAtRemaining == 0 {
		c.Reveal.AccelerateAtRemaining = defaults.Reveal.AccelerateAtRemaining
	}
	if c.Reveal.TickMillis == 0 {
		c.Reveal.TickMillis = defaults.Reveal.TickMillis
	}

	if len(c.Poll.LadderSecs) == 0 {
		c.Poll.LadderSecs = append([]int(nil), defaults.Poll.LadderSecs...)
	}

	if c.Events.Capacity == 0 {
		c.Events.Capacity = defaults.Events.Capacity
	}
	if c.Events.MaxMessageKB == 0 {
		c.Events.MaxMessageKB = defaults.Events.MaxMessageKB
	}

	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = defaults.Cache.TTLHours
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.CarouselIntervalMillis == 0 {
		c.UI.CarouselIntervalMillis = defaults.UI.CarouselIntervalMillis
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PRISM_MODEL: overrides default_model
//   - PRISM_GATEWAY_URL: overrides gateway.base_url
//   - PRISM_API_KEY: overrides gateway.api_key
//   - PRISM_REDIS_URL: overrides cache.redis_url
//   - PRISM_THEME: overrides ui.theme
//   - PRISM_NO_REVEAL: set to "1" or "true" to disable the typewriter
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("PRISM_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if gatewayURL := os.Getenv("PRISM_GATEWAY_URL"); gatewayURL != "" {
		c.Gateway.BaseURL = gatewayURL
	}
	if key := os.Getenv("PRISM_API_KEY"); key != "" {
		c.Gateway.APIKey = key
	}
	if redisURL := os.Getenv("PRISM_REDIS_URL"); redisURL != "" {
		c.Cache.RedisURL = redisURL
	}
	if theme := os.Getenv("PRISM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if noReveal := os.Getenv("PRISM_NO_REVEAL"); noReveal != "" {
		c.Reveal.Enabled = !(noReveal == "1" || strings.ToLower(noReveal) == "true")
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// PollLadder returns the backoff ladder as durations.
func (c *Config) PollLadder() []time.Duration {
	ladder := make([]time.Duration, 0, len(c.Poll.LadderSecs))
	for _, secs := range c.Poll.LadderSecs {
		ladder = append(ladder, time.Duration(secs)*time.Second)
	}
	return ladder
}

// RevealTick returns the reveal tick interval as a duration.
func (c *Config) RevealTick() time.Duration {
	return time.Duration(c.Reveal.TickMillis) * time.Millisecond
}

// CarouselInterval returns the preview rotation cadence as a duration.
func (c *Config) CarouselInterval() time.Duration {
	return time.Duration(c.UI.CarouselIntervalMillis) * time.Millisecond
}

// GatewayTimeout returns the gateway request timeout as a duration.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSecs) * time.Second
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Poll.LadderSecs = append([]int(nil), c.Poll.LadderSecs...)
	return &clone
}

// String returns a string representation of the config for debugging.
// The gateway API key is redacted so it cannot leak into logs.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Gateway.APIKey != "" {
		safe.Gateway.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
