// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// ERROR DISPLAY COMPONENT
// =============================================================================

// ErrorDisplay renders an error box with an optional list of
// suggestions.
type ErrorDisplay struct {
	title       string
	message     string
	suggestions []string

	width   int
	visible bool
}

// NewError creates a visible error display.
func NewError(title, message string) ErrorDisplay {
	return ErrorDisplay{
		title:   title,
		message: message,
		width:   60,
		visible: true,
	}
}

// NewErrorWithSuggestions creates an error display with suggestions.
func NewErrorWithSuggestions(title, message string, suggestions []string) ErrorDisplay {
	e := NewError(title, message)
	e.suggestions = suggestions
	return e
}

// SetTitle sets the error title.
func (e *ErrorDisplay) SetTitle(title string) {
	e.title = title
}

// SetMessage sets the error message.
func (e *ErrorDisplay) SetMessage(message string) {
	e.message = message
}

// SetSuggestions sets the suggestion list.
func (e *ErrorDisplay) SetSuggestions(suggestions []string) {
	e.suggestions = suggestions
}

// SetWidth sets the display width.
func (e *ErrorDisplay) SetWidth(width int) {
	e.width = width
}

// Show makes the display visible.
func (e *ErrorDisplay) Show() {
	e.visible = true
}

// Hide hides the display.
func (e *ErrorDisplay) Hide() {
	e.visible = false
}

// IsVisible returns whether the display is visible.
func (e *ErrorDisplay) IsVisible() bool {
	return e.visible
}

// View renders the error box.
func (e ErrorDisplay) View() string {
	if !e.visible {
		return ""
	}

	width := e.width
	if width == 0 {
		width = 60
	}

	maxWidth := width - 8
	if maxWidth < 30 {
		maxWidth = 30
	}
	if maxWidth > 80 {
		maxWidth = 80
	}

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Error+" "+e.title))
	parts = append(parts, "")

	if e.message != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth - 4)
		parts = append(parts, messageStyle.Render(e.message))
	}

	if len(e.suggestions) > 0 {
		parts = append(parts, "")
		suggestionTitle := lipgloss.NewStyle().
			Foreground(styles.InfoHighContrast).
			Bold(true).
			Render("Suggestions:")
		parts = append(parts, suggestionTitle)

		bulletStyle := lipgloss.NewStyle().
			Foreground(styles.Teal)
		textStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

		for _, suggestion := range e.suggestions {
			parts = append(parts, bulletStyle.Render("  * ")+textStyle.Render(suggestion))
		}
	}

	content := strings.Join(parts, "\n")

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Rose).
		Padding(1, 2).
		MaxWidth(maxWidth).
		Render(content)
}

// =============================================================================
// COMMON ERROR PRESETS
// =============================================================================

// ConnectionError builds the standard gateway-unreachable error.
func ConnectionError(gatewayURL string) ErrorDisplay {
	return NewErrorWithSuggestions(
		"Cannot reach the gateway",
		"The gateway at "+gatewayURL+" did not respond.",
		[]string{
			"Check that the gateway is running",
			"Verify gateway.base_url in ~/.prism/config.toml",
			"Set PRISM_GATEWAY_URL to override the configured address",
		},
	)
}

// ModelNotFoundError builds the unknown-model error.
func ModelNotFoundError(modelName string) ErrorDisplay {
	return NewErrorWithSuggestions(
		"Model not found",
		"The gateway does not serve \""+modelName+"\".",
		[]string{
			"Run /models to list available models",
			"Check default_model in your config",
		},
	)
}

// TimeoutError builds the request-timeout error.
func TimeoutError() ErrorDisplay {
	return NewErrorWithSuggestions(
		"Request timed out",
		"The gateway took too long to respond.",
		[]string{
			"Try again; the model may be under load",
			"Raise gateway.timeout_secs in your config",
		},
	)
}

// UnauthorizedError builds the bad-credentials error.
func UnauthorizedError() ErrorDisplay {
	return NewErrorWithSuggestions(
		"Unauthorized",
		"The gateway rejected the API key.",
		[]string{
			"Set PRISM_API_KEY or gateway.api_key in your config",
		},
	)
}

// =============================================================================
// INLINE VARIANTS
// =============================================================================

// InlineError renders a one-line error message.
func InlineError(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Render(styles.StatusIndicators.Error + " " + message)
}

// InlineWarning renders a one-line warning message.
func InlineWarning(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.WarningHighContrast).
		Render(styles.StatusIndicators.Warning + " " + message)
}

// InlineInfo renders a one-line info message.
func InlineInfo(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.InfoHighContrast).
		Render(styles.StatusIndicators.Info + " " + message)
}

// InlineSuccess renders a one-line success message.
func InlineSuccess(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.SuccessHighContrast).
		Render(styles.StatusIndicators.Success + " " + message)
}
