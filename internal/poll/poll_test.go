// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedFetch returns statuses from a fixed script, repeating the
// last entry once exhausted.
func scriptedFetch(script []string) FetchFunc[string] {
	i := 0
	return func(ctx context.Context, taskID string) (string, error) {
		s := script[i]
		if i < len(script)-1 {
			i++
		}
		return s, nil
	}
}

func stopOnReady(status string) bool {
	return status == "ready"
}

func TestLadderSequence(t *testing.T) {
	// The default interval sequence is exactly 1s, 2s, 3s, 3s, ...
	c := NewController[string](Config{}, scriptedFetch([]string{"running"}), stopOnReady)
	c.Activate("job-1")

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		3 * time.Second,
		3 * time.Second,
		3 * time.Second,
	}
	for i, expected := range want {
		if got := c.CurrentInterval(); got != expected {
			t.Errorf("step %d: interval = %v, want %v", i, got, expected)
		}
		c.AdvanceInterval()
	}
}

func TestIntervalNonDecreasing(t *testing.T) {
	c := NewController[string](Config{}, scriptedFetch([]string{"running"}), stopOnReady)
	c.Activate("job-1")

	prev := c.CurrentInterval()
	for i := 0; i < 10; i++ {
		c.AdvanceInterval()
		cur := c.CurrentInterval()
		if cur < prev {
			t.Fatalf("interval decreased from %v to %v", prev, cur)
		}
		prev = cur
	}
}

func TestRunningThenReady(t *testing.T) {
	// Scenario: running then ready means exactly 2 fetches, the session
	// reaches stopped, and the interval never advances past the first
	// reschedule.
	c := NewController[string](Config{}, scriptedFetch([]string{"running", "ready"}), stopOnReady)
	gen := c.Activate("job-1")

	// Immediate fetch on activation.
	if !c.Poll(context.Background()) {
		t.Fatal("session should continue after running status")
	}
	c.AdvanceInterval()

	// First scheduled tick.
	if !c.ValidTick(gen) {
		t.Fatal("tick should be valid for the live generation")
	}
	if c.Poll(context.Background()) {
		t.Fatal("session should stop after ready status")
	}

	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
	if c.Fetches() != 2 {
		t.Errorf("fetches = %d, want 2", c.Fetches())
	}
	if c.CurrentInterval() != 2*time.Second {
		t.Errorf("interval advanced to %v before stopping", c.CurrentInterval())
	}
}

func TestStoppedIsTerminal(t *testing.T) {
	c := NewController[string](Config{}, scriptedFetch([]string{"ready"}), stopOnReady)
	gen := c.Activate("job-1")
	c.Poll(context.Background())

	if c.State() != StateStopped {
		t.Fatalf("state = %v, want stopped", c.State())
	}
	if c.Poll(context.Background()) {
		t.Error("Poll on a stopped session should not continue")
	}
	if c.ValidTick(gen) {
		t.Error("old generation must be stale after stop")
	}
	if c.Fetches() != 1 {
		t.Errorf("fetches = %d after stop, want 1", c.Fetches())
	}
}

func TestReactivationRetiresOldTimer(t *testing.T) {
	c := NewController[string](Config{}, scriptedFetch([]string{"running"}), stopOnReady)
	gen1 := c.Activate("job-1")
	c.Poll(context.Background())
	c.AdvanceInterval()

	gen2 := c.Activate("job-2")

	// A timer armed by the old session must be rejected.
	if c.ValidTick(gen1) {
		t.Error("stale generation accepted after re-activation")
	}
	if !c.ValidTick(gen2) {
		t.Error("live generation rejected")
	}
	// The ladder restarts for the new session.
	if c.CurrentInterval() != 1*time.Second {
		t.Errorf("interval = %v after re-activation, want 1s", c.CurrentInterval())
	}
}

func TestFetchErrorIsTransient(t *testing.T) {
	fetchErr := errors.New("gateway unreachable")
	calls := 0
	fetch := func(ctx context.Context, taskID string) (string, error) {
		calls++
		if calls == 2 {
			return "", fetchErr
		}
		return "running", nil
	}

	c := NewController[string](Config{}, fetch, stopOnReady)
	c.Activate("job-1")

	c.Poll(context.Background())
	c.AdvanceInterval()
	if c.LastErr() != nil {
		t.Errorf("unexpected LastErr: %v", c.LastErr())
	}

	// Failed fetch: surfaced as state, session keeps going, last known
	// good status is preserved, ladder unaffected.
	if !c.Poll(context.Background()) {
		t.Fatal("session should survive a transient fetch error")
	}
	if !errors.Is(c.LastErr(), fetchErr) {
		t.Errorf("LastErr = %v, want %v", c.LastErr(), fetchErr)
	}
	if latest, ok := c.Latest(); !ok || latest != "running" {
		t.Errorf("Latest = %q/%v, want running/true", latest, ok)
	}
	c.AdvanceInterval()

	// Recovery clears the error.
	c.Poll(context.Background())
	if c.LastErr() != nil {
		t.Errorf("LastErr = %v after recovery, want nil", c.LastErr())
	}
}

func TestMaxFailuresStopsSession(t *testing.T) {
	fetch := func(ctx context.Context, taskID string) (string, error) {
		return "", errors.New("boom")
	}

	c := NewController[string](Config{MaxFailures: 3}, fetch, stopOnReady)
	c.Activate("job-1")

	c.Poll(context.Background())
	c.Poll(context.Background())
	if c.State() != StateActive {
		t.Fatalf("state = %v before hitting the cap, want active", c.State())
	}
	if c.Poll(context.Background()) {
		t.Error("session should stop at the failure cap")
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
}

func TestInactiveBeforeActivation(t *testing.T) {
	c := NewController[string](Config{}, scriptedFetch([]string{"running"}), stopOnReady)

	if c.State() != StateInactive {
		t.Errorf("state = %v, want inactive", c.State())
	}
	if c.Poll(context.Background()) {
		t.Error("Poll before activation should not continue")
	}
	if c.ValidTick(0) {
		t.Error("no tick is valid before activation")
	}
}
