// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package evals models evaluation jobs running on the Prism gateway and
// keeps a local history of finished runs.
//
// The TUI never executes evals itself; it mirrors remote status through
// the poll controller and renders progress in the eval panel.
package evals

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// JOB STATUS
// =============================================================================

// Status is the gateway-side lifecycle of an eval job.
type Status string

const (
	// StatusQueued means the job is waiting for a worker.
	StatusQueued Status = "queued"

	// StatusRunning means the job is executing.
	StatusRunning Status = "running"

	// StatusReady means results are available and awaiting a rating.
	StatusReady Status = "ready"

	// StatusSucceeded means the job finished and passed.
	StatusSucceeded Status = "succeeded"

	// StatusFailed means the job errored out.
	StatusFailed Status = "failed"

	// StatusRated means a ready job received its rating.
	StatusRated Status = "rated"

	// StatusCanceled means the job was canceled by the user.
	StatusCanceled Status = "canceled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status can never change again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusRated, StatusCanceled:
		return true
	default:
		return false
	}
}

// StopWhenTerminal is the poll stop predicate for jobs tracked until
// they finish completely.
func StopWhenTerminal(s Status) bool {
	return s.IsTerminal()
}

// StopWhenReady is the poll stop predicate for jobs tracked only until
// their results are available for review.
func StopWhenReady(s Status) bool {
	return s == StatusReady || s.IsTerminal()
}

// =============================================================================
// JOB
// =============================================================================

// Job is the local mirror of one gateway eval job. All accessors are
// thread-safe because the poll callback and the view read concurrently.
type Job struct {
	// ID is the gateway job identifier.
	ID string

	// Name describes the eval suite being run.
	Name string

	// Model is the gateway model under evaluation.
	Model string

	// CreatedAt is when the job was submitted.
	CreatedAt time.Time

	mu        sync.RWMutex
	status    Status
	score     float64
	errText   string
	updatedAt time.Time
}

// NewJob creates a queued job mirror.
func NewJob(name, model string) *Job {
	return &Job{
		ID:        "eval_" + uuid.NewString(),
		Name:      name,
		Model:     model,
		CreatedAt: time.Now(),
		status:    StatusQueued,
		updatedAt: time.Now(),
	}
}

// SetStatus applies a remote status observation. Invalid transitions
// (out of a terminal state) are rejected so a late poll response can
// never resurrect a finished job.
func (j *Job) SetStatus(s Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.IsTerminal() && s != j.status {
		return fmt.Errorf("invalid status transition from %s to %s", j.status, s)
	}
	j.status = s
	j.updatedAt = time.Now()
	return nil
}

// Status returns the current status.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// SetScore records the job's score.
func (j *Job) SetScore(score float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.score = score
	j.updatedAt = time.Now()
}

// Score returns the recorded score.
func (j *Job) Score() float64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.score
}

// SetError records the failure reason reported by the gateway.
func (j *Job) SetError(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errText = text
	j.updatedAt = time.Now()
}

// Error returns the failure reason, if any.
func (j *Job) Error() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.errText
}

// UpdatedAt returns when the job last changed.
func (j *Job) UpdatedAt() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.updatedAt
}

// Summary returns a one-line description for lists and logs.
func (j *Job) Summary() string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	short := j.ID
	if len(short) > 13 {
		short = short[:13]
	}
	return fmt.Sprintf("[%s] %s (%s) - %s", short, j.Name, j.Model, j.status)
}
