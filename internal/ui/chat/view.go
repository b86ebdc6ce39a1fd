// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// This file renders the chat layout: header, transcript, reasoning
// preview, task panel, event log, input, and status bar, plus the
// inspect and session overlays.
package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
	"github.com/jeranaias/prism-tui/internal/util"
)

// View renders the chat interface.
func (m Model) View() string {
	if m.width == 0 {
		return "starting prism..."
	}

	if m.inspecting {
		return m.viewInspect()
	}
	if m.showSessions {
		return m.viewSessions()
	}

	var sections []string

	if m.height < 24 || m.deps.Config.UI.CompactMode {
		sections = append(sections, m.header.ViewCompact())
	} else {
		sections = append(sections, m.header.View())
	}

	sections = append(sections, m.chatView.View())

	if thinking := m.thinking.View(); thinking != "" {
		sections = append(sections, thinking)
	}

	if preview := m.viewCarousel(); preview != "" {
		sections = append(sections, preview)
	}

	if m.taskPanel.Active() {
		sections = append(sections, m.taskPanel.View())
	}

	if m.showEvents {
		sections = append(sections, m.eventView.View())
	}

	if m.errBox.IsVisible() {
		sections = append(sections, m.errBox.View())
	}

	sections = append(sections, m.input.View())

	if m.statusNote != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render(m.statusNote))
	}

	sections = append(sections, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewCarousel renders the rotating reasoning preview. It only shows
// while reasoning is collapsed and frames exist; the expanded view
// replaces it with the full reasoning text.
func (m Model) viewCarousel() string {
	if m.reasoningExpanded || !m.collapseReasoning {
		return ""
	}
	if m.carousel.FrameCount() == 0 {
		return ""
	}

	label := lipgloss.NewStyle().
		Foreground(styles.ReasoningFg).
		Italic(true).
		Render("reasoning preview")

	return lipgloss.JoinVertical(lipgloss.Left, label, m.carousel.View())
}

// viewInspect renders the markdown overlay for the last answer.
func (m Model) viewInspect() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal).
		Render("inspect")

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Esc to close")

	body := m.inspectText
	// Clamp to the visible area; glamour has already wrapped lines.
	lines := strings.Split(body, "\n")
	maxLines := m.height - 4
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		body = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hint)
}

// viewSessions renders the saved conversation list.
func (m Model) viewSessions() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal).
		Render("sessions")

	if len(m.sessions) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("no saved conversations")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}

	var rows []string
	maxRows := m.height - 5
	if maxRows < 1 {
		maxRows = len(m.sessions)
	}
	for i, meta := range m.sessions {
		if i >= maxRows {
			break
		}
		label := meta.Title
		if label == "" {
			label = meta.Preview
		}
		if label == "" {
			label = meta.ID
		}

		num := lipgloss.NewStyle().
			Foreground(styles.Violet).
			Render(strconv.Itoa(i+1) + ".")

		info := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("  " + meta.Model + ", " +
				strconv.Itoa(meta.MessageCount) + " messages, " +
				meta.UpdatedAt.Format("Jan 2 15:04"))

		row := num + " " + util.TruncateWidth(label, m.width-6)
		rows = append(rows, row, info)
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("/load <n> to open, Esc to close")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		hint,
	)
}
