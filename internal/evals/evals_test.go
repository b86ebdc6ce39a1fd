// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package evals

import (
	"path/filepath"
	"testing"
)

func TestNewJob(t *testing.T) {
	job := NewJob("regression suite", "prism-large")

	if job.ID == "" {
		t.Error("job ID should not be empty")
	}
	if job.Status() != StatusQueued {
		t.Errorf("Status = %v, want queued", job.Status())
	}
}

func TestStatusTransitions(t *testing.T) {
	job := NewJob("suite", "prism-large")

	if err := job.SetStatus(StatusRunning); err != nil {
		t.Fatalf("queued -> running: %v", err)
	}
	if err := job.SetStatus(StatusReady); err != nil {
		t.Fatalf("running -> ready: %v", err)
	}
	if err := job.SetStatus(StatusRated); err != nil {
		t.Fatalf("ready -> rated: %v", err)
	}

	// Terminal states cannot change.
	if err := job.SetStatus(StatusRunning); err == nil {
		t.Error("rated -> running should be rejected")
	}
	// Idempotent terminal observation is fine.
	if err := job.SetStatus(StatusRated); err != nil {
		t.Errorf("repeated terminal observation rejected: %v", err)
	}
}

func TestTerminalStatuses(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusReady, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
		{StatusRated, true},
		{StatusCanceled, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestStopPredicates(t *testing.T) {
	if StopWhenTerminal(StatusReady) {
		t.Error("ready is not terminal")
	}
	if !StopWhenReady(StatusReady) {
		t.Error("StopWhenReady should accept ready")
	}
	if !StopWhenReady(StatusFailed) {
		t.Error("StopWhenReady should accept terminal states")
	}
	if StopWhenReady(StatusRunning) {
		t.Error("StopWhenReady should reject running")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evals.db")

	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory failed: %v", err)
	}
	defer h.Close()

	job := NewJob("smoke suite", "prism-small")
	job.SetStatus(StatusRunning)
	job.SetStatus(StatusSucceeded)
	job.SetScore(0.92)

	if err := h.Record(job); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Re-recording the same job must upsert, not duplicate.
	job.SetScore(0.95)
	if err := h.Record(job); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	records, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.ID != job.ID || r.Status != StatusSucceeded {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Score != 0.95 {
		t.Errorf("Score = %v, want 0.95", r.Score)
	}
}
