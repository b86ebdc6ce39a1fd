// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

func TestTaskPanelInactiveRendersNothing(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	if p.View() != "" {
		t.Errorf("inactive panel rendered %q", p.View())
	}
}

func TestTaskPanelTrackAndStatus(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.SetWidth(70)
	p.Track("eval: math-suite", "eval_42")

	if !p.Active() {
		t.Fatal("panel not active after Track")
	}
	if p.TaskID() != "eval_42" {
		t.Errorf("TaskID = %q, want eval_42", p.TaskID())
	}

	view := p.View()
	if !strings.Contains(view, "eval: math-suite") {
		t.Error("view missing task title")
	}
	if !strings.Contains(view, "eval_42") {
		t.Error("view missing task id")
	}
	if !strings.Contains(view, "queued") {
		t.Error("view missing initial status")
	}
}

func TestTaskPanelPollFooter(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.SetWidth(70)
	p.Track("run: search", "run_7")
	p.SetStatus(evals.StatusRunning)
	p.SetPollState(2*time.Second, 1)

	view := p.View()
	if !strings.Contains(view, "polling every 2.0s") {
		t.Errorf("view missing poll interval, got: %q", view)
	}
	if !strings.Contains(view, "1 failed") {
		t.Error("view missing failure count")
	}
}

func TestTaskPanelTerminalStatusHidesFooter(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.SetWidth(70)
	p.Track("eval: math-suite", "eval_42")
	p.SetPollState(3*time.Second, 0)
	p.SetStatus(evals.StatusSucceeded)

	view := p.View()
	if strings.Contains(view, "polling every") {
		t.Error("terminal status still shows poll footer")
	}
	if !strings.Contains(view, "succeeded") {
		t.Error("view missing terminal status")
	}
	if !strings.Contains(view, styles.StatusIndicators.Success) {
		t.Error("view missing success indicator")
	}
}

func TestTaskPanelFailureIndicator(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.SetWidth(70)
	p.Track("eval: math-suite", "eval_42")
	p.SetStatus(evals.StatusFailed)
	p.SetDetail("worker crashed")

	view := p.View()
	if !strings.Contains(view, styles.StatusIndicators.Error) {
		t.Error("view missing failure indicator")
	}
	if !strings.Contains(view, "worker crashed") {
		t.Error("view missing detail line")
	}
}

func TestTaskPanelScore(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.SetWidth(70)
	p.Track("eval: math-suite", "eval_42")
	p.SetStatus(evals.StatusReady)
	p.SetScore(0.87)

	view := p.View()
	if !strings.Contains(view, "score: 0.87") {
		t.Errorf("view missing score, got: %q", view)
	}
}

func TestTaskPanelClear(t *testing.T) {
	p := NewTaskPanel(styles.NewTheme())
	p.Track("eval: math-suite", "eval_42")
	p.Clear()

	if p.Active() {
		t.Error("panel still active after Clear")
	}
	if p.View() != "" {
		t.Error("cleared panel still renders")
	}
}
