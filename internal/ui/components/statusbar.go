// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// CONNECTION STATUS
// =============================================================================

// Status represents the gateway connection state.
type Status int

const (
	StatusConnected Status = iota
	StatusConnecting
	StatusDisconnected
	StatusStreaming
	StatusError
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusConnecting:
		return "connecting"
	case StatusDisconnected:
		return "disconnected"
	case StatusStreaming:
		return "streaming"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Icon returns the shape indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusConnected:
		return styles.StatusIndicators.Success
	case StatusConnecting:
		return styles.StatusIndicators.Pending
	case StatusStreaming:
		return styles.StatusIndicators.Active
	case StatusError, StatusDisconnected:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Info
	}
}

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom bar showing the active model, gateway
// connection state, token usage, and keyboard shortcuts.
type StatusBar struct {
	Width int

	ModelName  string
	Status     Status
	GatewayURL string

	// Session token counters.
	PromptTokens     int
	CompletionTokens int
	ShowTokens       bool

	// Reveal indicator: the scheduler is still catching up to the
	// stream tail.
	Revealing bool

	theme *styles.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:      80,
		Status:     StatusConnecting,
		ShowTokens: true,
		theme:      theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetModel sets the displayed model name.
func (s *StatusBar) SetModel(modelName string) {
	s.ModelName = modelName
}

// SetStatus sets the connection status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetGatewayURL sets the gateway URL shown in wide layouts.
func (s *StatusBar) SetGatewayURL(url string) {
	s.GatewayURL = url
}

// AddTokens accumulates token usage for the session.
func (s *StatusBar) AddTokens(prompt, completion int) {
	s.PromptTokens += prompt
	s.CompletionTokens += completion
}

// SetRevealing toggles the catching-up indicator.
func (s *StatusBar) SetRevealing(revealing bool) {
	s.Revealing = revealing
}

// View renders the status bar, choosing a layout for the width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: [icon] model tok
func (s *StatusBar) viewNarrow() string {
	parts := []string{s.getStatusStyle().Render(s.Status.Icon())}

	if s.ModelName != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render(util.TruncateRunes(s.ModelName, 18)))
	}

	if s.ShowTokens {
		total := s.PromptTokens + s.CompletionTokens
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmtNumber(total)+"t"))
	}

	result := strings.Join(parts, " ")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar.
// Format: model | status | tokens | shortcuts
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	if s.ModelName != "" {
		parts = append(parts, s.theme.ModelName.Render(
			util.TruncateRunes(s.ModelName, 24)))
	}

	parts = append(parts, s.getStatusStyle().Render(
		s.Status.Icon()+" "+s.Status.String()))

	if s.Revealing {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render("revealing"))
	}

	if s.ShowTokens {
		parts = append(parts, s.renderTokens())
	}

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders the full status bar: left section with model and
// gateway, right section with tokens and shortcuts.
func (s *StatusBar) viewWide() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	leftParts := []string{}

	if s.ModelName != "" {
		leftParts = append(leftParts, s.theme.ModelName.Render(s.ModelName))
	}

	if s.GatewayURL != "" {
		leftParts = append(leftParts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(util.TruncateRunes(s.GatewayURL, 32)))
	}

	leftParts = append(leftParts, s.getStatusStyle().Render(
		s.Status.Icon()+" "+s.Status.String()))

	if s.Revealing {
		leftParts = append(leftParts, lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render("revealing"))
	}

	left := strings.Join(leftParts, separator)

	rightParts := []string{}
	if s.ShowTokens {
		rightParts = append(rightParts, s.renderTokens())
	}
	rightParts = append(rightParts, s.renderShortcuts())
	right := strings.Join(rightParts, separator)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	result := left + strings.Repeat(" ", gap) + right

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// renderTokens renders the session token counters.
func (s *StatusBar) renderTokens() string {
	label := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("tok:")

	value := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(fmtNumber(s.PromptTokens) + "+" + fmtNumber(s.CompletionTokens))

	return label + " " + value
}

// renderShortcuts renders the keyboard hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"^r", "reasoning"},
		{"^e", "events"},
		{"^s", "sessions"},
		{"^c", "quit"},
	}

	var parts []string
	for _, sc := range shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.key)+" "+s.theme.ShortcutDesc.Render(sc.desc))
	}

	return strings.Join(parts, " ")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusConnected:
		return lipgloss.NewStyle().Foreground(styles.Emerald)
	case StatusStreaming:
		return lipgloss.NewStyle().Foreground(styles.Teal)
	case StatusConnecting:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	case StatusError, StatusDisconnected:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextSecondary)
	}
}
