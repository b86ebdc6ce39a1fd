// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package poll provides a generic adaptive-backoff poller for any
// resource that answers a status fetch, such as eval jobs or tool
// invocation runs.
//
// A Controller walks a fixed interval ladder (1s, 2s, 3s, then holding
// at 3s) until a caller-supplied stop predicate accepts the latest
// status. The controller never owns a timer: the hosting view schedules
// ticks at CurrentInterval and stamps them with the session generation,
// and the controller rejects ticks from a stale generation. That keeps
// the hard invariant of at most one live timer per session without any
// locking.
//
// Fetch failures are transient. They are recorded and surfaced through
// LastErr without halting or resetting the ladder, so the view keeps its
// last known good status and can render a retry affordance.
package poll

import (
	"context"
	"time"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// DefaultLadder is the default poll interval ladder. The final entry
// repeats until the session stops.
var DefaultLadder = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	3 * time.Second,
}

// FetchFunc fetches the latest status for a task.
type FetchFunc[S any] func(ctx context.Context, taskID string) (S, error)

// StopFunc decides whether a session should terminate given the latest
// fetched status.
type StopFunc[S any] func(status S) bool

// Config holds the tuning knobs for a Controller.
type Config struct {
	// Ladder is the interval sequence; the last entry holds. Empty means
	// DefaultLadder.
	Ladder []time.Duration

	// MaxFailures stops the session after this many consecutive fetch
	// failures. Zero means retry forever with the error surfaced.
	MaxFailures int
}

// =============================================================================
// CONTROLLER
// =============================================================================

// State is the lifecycle phase of a poll session.
type State int

const (
	// StateInactive means no session has been activated yet.
	StateInactive State = iota

	// StateActive means the session is scheduling fetches.
	StateActive

	// StateStopped is terminal; a stopped session never resumes.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Controller runs one poll session at a time for a status resource.
type Controller[S any] struct {
	cfg   Config
	fetch FetchFunc[S]
	stop  StopFunc[S]

	state      State
	taskID     string
	generation int
	ladderIdx  int

	latest    S
	hasLatest bool
	lastErr   error
	failures  int
	fetches   int
}

// NewController creates a poll controller for the given fetch and stop
// predicate.
func NewController[S any](cfg Config, fetch FetchFunc[S], stop StopFunc[S]) *Controller[S] {
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = DefaultLadder
	}
	return &Controller[S]{cfg: cfg, fetch: fetch, stop: stop}
}

// Activate starts a session for taskID and returns its generation.
//
// Any previous session is invalidated first: its generation is retired,
// so a timer it still has pending is rejected on arrival. The ladder
// restarts at the first interval.
func (c *Controller[S]) Activate(taskID string) int {
	c.generation++
	c.taskID = taskID
	c.state = StateActive
	c.ladderIdx = 0
	c.failures = 0
	c.fetches = 0
	c.lastErr = nil
	return c.generation
}

// Stop terminates the session. Stopped is terminal; pending ticks for
// the session become stale.
func (c *Controller[S]) Stop() {
	if c.state == StateActive {
		c.state = StateStopped
		c.generation++
	}
}

// ValidTick reports whether a timer stamped with generation still
// belongs to the live session. Stale ticks must be dropped unprocessed.
func (c *Controller[S]) ValidTick(generation int) bool {
	return c.state == StateActive && generation == c.generation
}

// Poll performs one fetch and evaluates the stop predicate. It returns
// true when the session should schedule another tick.
func (c *Controller[S]) Poll(ctx context.Context) bool {
	if c.state != StateActive {
		return false
	}

	c.fetches++
	status, err := c.fetch(ctx, c.taskID)
	if err != nil {
		// Transient by policy: surface the error, keep the last known
		// good status, keep the ladder running.
		c.lastErr = err
		c.failures++
		if c.cfg.MaxFailures > 0 && c.failures >= c.cfg.MaxFailures {
			c.Stop()
			return false
		}
		return true
	}

	c.lastErr = nil
	c.failures = 0
	c.latest = status
	c.hasLatest = true

	if c.stop != nil && c.stop(status) {
		c.Stop()
		return false
	}
	return true
}

// AdvanceInterval moves one rung up the ladder, holding at the ceiling.
// Called by the view after each scheduled tick that did not stop the
// session, so the interval is non-decreasing within a session.
func (c *Controller[S]) AdvanceInterval() {
	if c.ladderIdx < len(c.cfg.Ladder)-1 {
		c.ladderIdx++
	}
}

// CurrentInterval returns the delay before the next scheduled fetch.
func (c *Controller[S]) CurrentInterval() time.Duration {
	return c.cfg.Ladder[c.ladderIdx]
}

// State returns the session lifecycle phase.
func (c *Controller[S]) State() State {
	return c.state
}

// Generation returns the live session generation.
func (c *Controller[S]) Generation() int {
	return c.generation
}

// TaskID returns the task the live session is polling.
func (c *Controller[S]) TaskID() string {
	return c.taskID
}

// Latest returns the last successfully fetched status, if any.
func (c *Controller[S]) Latest() (S, bool) {
	return c.latest, c.hasLatest
}

// LastErr returns the most recent fetch error, or nil after a success.
func (c *Controller[S]) LastErr() error {
	return c.lastErr
}

// Fetches returns how many fetches the live session has performed.
func (c *Controller[S]) Fetches() int {
	return c.fetches
}
