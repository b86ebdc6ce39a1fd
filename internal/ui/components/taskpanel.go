// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// TASK PANEL COMPONENT
// =============================================================================

// TaskPanel shows the live status of one polled eval or tool run: the
// latest gateway status, the current poll interval, and how many
// consecutive fetches have failed.
type TaskPanel struct {
	title  string
	taskID string
	status evals.Status
	detail string

	interval time.Duration
	failures int
	score    float64
	hasScore bool

	spinner InlineSpinner
	width   int

	theme *styles.Theme
}

// NewTaskPanel creates an empty task panel.
func NewTaskPanel(theme *styles.Theme) *TaskPanel {
	return &TaskPanel{
		spinner: NewInlineSpinner(),
		width:   60,
		theme:   theme,
	}
}

// SetWidth sets the panel width.
func (p *TaskPanel) SetWidth(width int) {
	p.width = width
}

// Track starts showing the given task. Returns the spinner tick
// command.
func (p *TaskPanel) Track(title, taskID string) tea.Cmd {
	p.title = title
	p.taskID = taskID
	p.status = evals.StatusQueued
	p.detail = ""
	p.failures = 0
	p.hasScore = false
	return p.spinner.Start()
}

// SetStatus updates the displayed gateway status.
func (p *TaskPanel) SetStatus(status evals.Status) {
	p.status = status
	if status.IsTerminal() {
		p.spinner.Stop()
	}
}

// SetDetail sets the free-form detail line (current tool, error text).
func (p *TaskPanel) SetDetail(detail string) {
	p.detail = detail
}

// SetScore records the eval score for display.
func (p *TaskPanel) SetScore(score float64) {
	p.score = score
	p.hasScore = true
}

// SetPollState updates the interval and failure counters shown in the
// footer.
func (p *TaskPanel) SetPollState(interval time.Duration, failures int) {
	p.interval = interval
	p.failures = failures
}

// Clear stops tracking and empties the panel.
func (p *TaskPanel) Clear() {
	p.title = ""
	p.taskID = ""
	p.spinner.Stop()
}

// Active reports whether the panel is tracking a task.
func (p *TaskPanel) Active() bool {
	return p.taskID != ""
}

// TaskID returns the tracked task identifier.
func (p *TaskPanel) TaskID() string {
	return p.taskID
}

// Status returns the latest status shown by the panel.
func (p *TaskPanel) Status() evals.Status {
	return p.status
}

// Update handles spinner ticks.
func (p *TaskPanel) Update(msg tea.Msg) (*TaskPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *TaskPanel) View() string {
	if !p.Active() {
		return ""
	}

	title := p.theme.TaskTitle.Render(p.title)
	idView := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(p.taskID)

	header := title + " " + idView

	statusLine := p.renderStatus()

	lines := []string{header, statusLine}

	if p.detail != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render(p.detail))
	}

	if p.hasScore {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(styles.Teal).
			Render("score: "+strconv.FormatFloat(p.score, 'f', 2, 64)))
	}

	if footer := p.renderFooter(); footer != "" {
		lines = append(lines, footer)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	panelWidth := p.width - 4
	if panelWidth < 24 {
		panelWidth = 24
	}

	return p.theme.TaskPanel.Width(panelWidth).Render(content)
}

// renderStatus renders the status line with the state-appropriate
// style and a spinner while the task is still moving.
func (p *TaskPanel) renderStatus() string {
	var statusView string
	switch p.status {
	case evals.StatusSucceeded, evals.StatusRated:
		statusView = p.theme.TaskSucceeded.Render(
			styles.StatusIndicators.Success + " " + p.status.String())
	case evals.StatusFailed, evals.StatusCanceled:
		statusView = p.theme.TaskFailed.Render(
			styles.StatusIndicators.Error + " " + p.status.String())
	case evals.StatusReady:
		statusView = p.theme.TaskSucceeded.Render(
			styles.StatusIndicators.Info + " " + p.status.String())
	default:
		spin := p.spinner.View()
		if spin == "" {
			spin = styles.StatusIndicators.Active
		}
		statusView = p.theme.TaskRunning.Render(spin + " " + p.status.String())
	}
	return statusView
}

// renderFooter renders the poll interval and failure count while the
// task is non-terminal.
func (p *TaskPanel) renderFooter() string {
	if p.status.IsTerminal() {
		return ""
	}

	parts := ""
	if p.interval > 0 {
		parts = "polling every " + fmtDuration(p.interval)
	}
	if p.failures > 0 {
		if parts != "" {
			parts += ", "
		}
		parts += strconv.Itoa(p.failures) + " failed"
	}
	if parts == "" {
		return ""
	}

	return p.theme.TaskInterval.Render(parts)
}
