// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// InputArea is the styled prompt input with a character counter.
type InputArea struct {
	input       textinput.Model
	placeholder string
	maxChars    int
	width       int
	focused     bool
	theme       *styles.Theme
}

// NewInputArea creates a new InputArea component.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (/ for commands)"
	ti.CharLimit = 4096
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Teal)

	return &InputArea{
		input:       ti,
		placeholder: ti.Placeholder,
		maxChars:    4096,
		width:       80,
		theme:       theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused returns whether the input is focused.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetWidth sets the input area width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetPlaceholder sets the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.placeholder = placeholder
	i.input.Placeholder = placeholder
}

// SetMaxChars sets the maximum character limit.
func (i *InputArea) SetMaxChars(max int) {
	i.maxChars = max
	i.input.CharLimit = max
}

// Value returns the current input value.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// CursorPosition returns the cursor position.
func (i *InputArea) CursorPosition() int {
	return i.input.Position()
}

// SetCursorPosition sets the cursor position.
func (i *InputArea) SetCursorPosition(pos int) {
	i.input.SetCursor(pos)
}

// Update handles input updates.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input area.
func (i *InputArea) View() string {
	charCount := len([]rune(i.input.Value()))
	charCountDisplay := i.renderCharCounter(charCount)

	inputView := i.input.View()

	var borderColor lipgloss.AdaptiveColor
	if i.focused {
		borderColor = styles.Teal
	} else {
		borderColor = styles.Overlay
	}

	containerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(i.width - 2)

	inputSection := containerStyle.Render(inputView)

	counterWidth := i.width - 4
	counterStyle := lipgloss.NewStyle().
		Width(counterWidth).
		Align(lipgloss.Right)

	charCountLine := counterStyle.Render(charCountDisplay)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		inputSection,
		charCountLine,
	)
}

// ViewCompact renders a compact single-line input.
func (i *InputArea) ViewCompact() string {
	inputView := i.input.View()
	charCount := len([]rune(i.input.Value()))

	counterStyle := i.getCharCountStyle(charCount)
	counter := counterStyle.Render("(" + fmtNumber(charCount) + ")")

	return inputView + " " + counter
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// renderCharCounter renders the character counter with color coding.
func (i *InputArea) renderCharCounter(count int) string {
	percent := 0.0
	if i.maxChars > 0 {
		percent = float64(count) / float64(i.maxChars) * 100
	}

	counterText := fmtNumber(count) + " / " + fmtNumber(i.maxChars) + " chars"

	style := i.getCharCountStyle(count)

	indicator := ""
	if percent >= 90 {
		indicator = " [!]"
	} else if percent >= 75 {
		indicator = " [~]"
	}

	return style.Render(counterText + indicator)
}

// getCharCountStyle returns the appropriate style for the character
// count.
func (i *InputArea) getCharCountStyle(count int) lipgloss.Style {
	percent := 0.0
	if i.maxChars > 0 {
		percent = float64(count) / float64(i.maxChars) * 100
	}

	if percent >= 90 {
		return lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
	}
	if percent >= 75 {
		return lipgloss.NewStyle().
			Foreground(styles.Amber)
	}
	if percent >= 50 {
		return lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
	}
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted)
}
