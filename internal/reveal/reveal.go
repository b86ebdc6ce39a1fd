// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal simulates live generation pacing for text that is
// already fully known.
//
// A Scheduler discloses its target string a chunk at a time, giving
// consistent typewriter pacing regardless of how the value arrived
// (token stream, cache hit, completed fetch). The chunk size grows with
// the remaining backlog so very long outputs never take unbounded time
// while short outputs stay visibly incremental.
//
// The scheduler is a pure state machine: it never owns a timer. The
// hosting view drives it with Tick calls from its own timer source and
// destroys it together with the owning view, which structurally rules
// out stale-timer updates.
package reveal

import (
	"time"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Default pacing parameters, tuned for chat-sized outputs.
const (
	DefaultBaseChunkSize         = 2
	DefaultMaxChunkSize          = 24
	DefaultAccelerateAtRemaining = 400
	DefaultTickInterval          = 30 * time.Millisecond
)

// Config holds the pacing parameters for a Scheduler.
type Config struct {
	// BaseChunkSize is the number of runes revealed per tick while the
	// backlog is small.
	BaseChunkSize int

	// MaxChunkSize caps per-tick advancement no matter how large the
	// backlog grows.
	MaxChunkSize int

	// AccelerateAtRemaining is the backlog size (in runes) above which
	// the chunk starts growing from BaseChunkSize toward MaxChunkSize.
	AccelerateAtRemaining int

	// TickInterval is the suggested delay between ticks. The scheduler
	// itself never sleeps; the owning view schedules its timer with it.
	TickInterval time.Duration
}

// DefaultConfig returns the default pacing configuration.
func DefaultConfig() Config {
	return Config{
		BaseChunkSize:         DefaultBaseChunkSize,
		MaxChunkSize:          DefaultMaxChunkSize,
		AccelerateAtRemaining: DefaultAccelerateAtRemaining,
		TickInterval:          DefaultTickInterval,
	}
}

// normalize fills zero or nonsensical values with defaults.
func (c Config) normalize() Config {
	if c.BaseChunkSize <= 0 {
		c.BaseChunkSize = DefaultBaseChunkSize
	}
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = DefaultMaxChunkSize
	}
	if c.MaxChunkSize < c.BaseChunkSize {
		c.MaxChunkSize = c.BaseChunkSize
	}
	if c.AccelerateAtRemaining <= 0 {
		c.AccelerateAtRemaining = DefaultAccelerateAtRemaining
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	return c
}

// =============================================================================
// SCHEDULER
// =============================================================================

// State is the lifecycle phase of a Scheduler.
type State int

const (
	// StateIdle means the scheduler is disabled.
	StateIdle State = iota

	// StateRevealing means part of the target is still hidden.
	StateRevealing

	// StateFinished means the whole target is visible.
	StateFinished
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Scheduler progressively discloses one target string. displayed is a
// rune index, monotonically non-decreasing while the identity key is
// unchanged and never exceeding the target length.
type Scheduler struct {
	cfg     Config
	enabled bool

	identity  string
	target    []rune
	displayed int
}

// NewScheduler creates an enabled scheduler with the given pacing.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg.normalize(), enabled: true}
}

// SetEnabled toggles the reveal effect. While disabled the scheduler is
// idle and Visible returns the full target immediately.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Observe feeds the latest known value for an identity key.
//
// An identity change resets disclosure to zero immediately, regardless
// of tick phase. A growing target under the same identity keeps the
// current disclosure. A shrinking target under the same identity is
// treated as an implicit identity change (the message was retracted or
// edited) and restarts disclosure from zero.
func (s *Scheduler) Observe(identityKey, target string) {
	runes := []rune(target)

	if identityKey != s.identity {
		s.identity = identityKey
		s.target = runes
		s.displayed = 0
		return
	}

	if len(runes) < len(s.target) {
		s.displayed = 0
	}
	s.target = runes
	if s.displayed > len(s.target) {
		s.displayed = len(s.target)
	}
}

// Tick advances disclosure by one chunk. It reports whether the visible
// prefix changed.
func (s *Scheduler) Tick() bool {
	if !s.enabled || s.displayed >= len(s.target) {
		return false
	}

	s.displayed += s.chunkSize()
	if s.displayed > len(s.target) {
		s.displayed = len(s.target)
	}
	return true
}

// chunkSize grows from BaseChunkSize toward MaxChunkSize proportionally
// to how far the backlog exceeds AccelerateAtRemaining.
func (s *Scheduler) chunkSize() int {
	remaining := len(s.target) - s.displayed
	chunk := s.cfg.BaseChunkSize
	if remaining > s.cfg.AccelerateAtRemaining {
		chunk = s.cfg.BaseChunkSize * remaining / s.cfg.AccelerateAtRemaining
		if chunk > s.cfg.MaxChunkSize {
			chunk = s.cfg.MaxChunkSize
		}
	}
	return chunk
}

// Visible returns the disclosed prefix of the target. While disabled the
// full target is returned so a disabled reveal never hides content.
func (s *Scheduler) Visible() string {
	if !s.enabled {
		return string(s.target)
	}
	return string(s.target[:s.displayed])
}

// Finished reports whether the whole target is visible. Callers append a
// cursor glyph while this is false.
func (s *Scheduler) Finished() bool {
	return s.displayed >= len(s.target)
}

// DisplayedLength returns the current disclosure length in runes.
func (s *Scheduler) DisplayedLength() int {
	return s.displayed
}

// State returns the lifecycle phase.
func (s *Scheduler) State() State {
	switch {
	case !s.enabled:
		return StateIdle
	case s.displayed < len(s.target):
		return StateRevealing
	default:
		return StateFinished
	}
}

// TickInterval returns the configured delay between ticks for the
// owning view's timer.
func (s *Scheduler) TickInterval() time.Duration {
	return s.cfg.TickInterval
}
