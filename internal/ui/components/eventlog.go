// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/events"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// EVENT LOG VIEW
// =============================================================================

// EventLogView renders the bounded event log with the most recent line
// at the top. Drop notices synthesized for lossy chunks get the warning
// treatment so lost data is never silently absorbed into the
// transcript.
type EventLogView struct {
	log *events.Log

	width  int
	height int

	filterLabel string
	connected   bool

	theme *styles.Theme
}

// NewEventLogView creates a view over the given log.
func NewEventLogView(log *events.Log, theme *styles.Theme) *EventLogView {
	return &EventLogView{
		log:    log,
		width:  80,
		height: 12,
		theme:  theme,
	}
}

// SetSize sets the display dimensions.
func (v *EventLogView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetFilterLabel sets the human-readable description of the active
// correlation filter, or "" for no filter.
func (v *EventLogView) SetFilterLabel(label string) {
	v.filterLabel = label
}

// SetConnected updates the stream connection indicator.
func (v *EventLogView) SetConnected(connected bool) {
	v.connected = connected
}

// View renders the event log.
func (v *EventLogView) View() string {
	header := v.renderHeader()

	lines := v.log.Lines()

	maxLines := v.height - 2
	if maxLines < 1 {
		maxLines = 1
	}

	var rendered []string
	// Most recent first; stop once the panel is full.
	for i := len(lines) - 1; i >= 0 && len(rendered) < maxLines; i-- {
		rendered = append(rendered, v.renderLine(lines[i]))
	}

	if len(rendered) == 0 {
		rendered = append(rendered, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("no events"))
	}

	body := strings.Join(rendered, "\n")

	panelWidth := v.width - 4
	if panelWidth < 24 {
		panelWidth = 24
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		v.theme.EventLog.Width(panelWidth).Render(body),
	)
}

// renderHeader renders the title row with filter and eviction info.
func (v *EventLogView) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	parts := []string{titleStyle.Render("events")}

	if v.connected {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Render("live"))
	} else {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("disconnected"))
	}

	parts = append(parts, lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(strconv.Itoa(v.log.Len())+" buffered"))

	if evicted := v.log.Evicted(); evicted > 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(strconv.Itoa(evicted)+" evicted"))
	}

	if v.filterLabel != "" {
		parts = append(parts, v.theme.EventFilter.Render("filter: "+v.filterLabel))
	}

	return strings.Join(parts, "  ")
}

// renderLine styles one transcript line, giving synthesized drop
// notices the warning treatment.
func (v *EventLogView) renderLine(line string) string {
	maxWidth := v.width - 8
	if maxWidth < 20 {
		maxWidth = 20
	}
	line = util.TruncateWidth(line, maxWidth)

	if strings.HasPrefix(line, "[drop]") {
		return v.theme.EventDropNotice.Render(line)
	}
	return v.theme.EventLine.Render(line)
}
