// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Mode represents the active view of the application.
type Mode int

const (
	ModeChat Mode = iota
	ModeSessions
	ModeEvents
	ModeTasks
)

// String returns the display string for the mode.
func (m Mode) String() string {
	switch m {
	case ModeChat:
		return "CHAT"
	case ModeSessions:
		return "SESSIONS"
	case ModeEvents:
		return "EVENTS"
	case ModeTasks:
		return "TASKS"
	default:
		return "UNKNOWN"
	}
}

// Header is the title bar component.
type Header struct {
	Title     string // Main title (default: "prism")
	ModelName string // Current gateway model
	Mode      Mode   // Active view
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "prism",
		Mode:  ModeChat,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetMode updates the active view.
func (h *Header) SetMode(mode Mode) {
	h.Mode = mode
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Violet)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, modelStyle.Render(h.ModelName))
	}

	modeStyle := h.getModeStyle()
	subtitleParts = append(subtitleParts, modeStyle.Render("["+h.Mode.String()+"]"))

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Violet).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow
// terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Violet)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, modelStyle.Render(h.ModelName))
	}

	modeStyle := h.getModeStyle()
	parts = append(parts, modeStyle.Render("["+h.Mode.String()+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// getModeStyle returns the appropriate style for the active view.
func (h *Header) getModeStyle() lipgloss.Style {
	switch h.Mode {
	case ModeChat:
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
	case ModeSessions:
		return lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)
	case ModeEvents:
		return lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
	case ModeTasks:
		return lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}

// =============================================================================
// GRADIENT TITLE (for terminals with true color support)
// =============================================================================

// GradientTitle creates a gradient text effect. Works best in terminals
// with true color support.
func GradientTitle(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	if len(text) < 3 {
		return lipgloss.NewStyle().Foreground(startColor).Render(text)
	}

	var result strings.Builder
	chars := []rune(text)
	n := len(chars)

	for i, char := range chars {
		t := float64(i) / float64(n-1)
		color := interpolateColor(startColor, endColor, t)

		style := lipgloss.NewStyle().Foreground(color)
		result.WriteString(style.Render(string(char)))
	}

	return result.String()
}

// interpolateColor interpolates between two hex colors.
func interpolateColor(start, end lipgloss.Color, t float64) lipgloss.Color {
	startHex := strings.TrimPrefix(string(start), "#")
	endHex := strings.TrimPrefix(string(end), "#")

	sr, sg, sb := parseHexColor(startHex)
	er, eg, eb := parseHexColor(endHex)

	r := uint8(float64(sr) + t*(float64(er)-float64(sr)))
	g := uint8(float64(sg) + t*(float64(eg)-float64(sg)))
	b := uint8(float64(sb) + t*(float64(eb)-float64(sb)))

	return lipgloss.Color(formatHexColor(r, g, b))
}

// parseHexColor parses a hex color string into RGB components,
// defaulting to white on malformed input.
func parseHexColor(hex string) (r, g, b uint8) {
	if len(hex) < 6 {
		return 255, 255, 255
	}

	r = parseHexByte(hex[0:2])
	g = parseHexByte(hex[2:4])
	b = parseHexByte(hex[4:6])
	return
}

// parseHexByte parses a two-character hex string into a byte.
func parseHexByte(s string) uint8 {
	if len(s) != 2 {
		return 255
	}

	var result uint8
	for _, c := range s {
		result *= 16
		switch {
		case c >= '0' && c <= '9':
			result += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			result += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			result += uint8(c - 'A' + 10)
		default:
			return 255
		}
	}
	return result
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b uint8) string {
	const hexChars = "0123456789ABCDEF"
	return "#" +
		string(hexChars[r>>4]) + string(hexChars[r&0xF]) +
		string(hexChars[g>>4]) + string(hexChars[g&0xF]) +
		string(hexChars[b>>4]) + string(hexChars[b&0xF])
}
