// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// markdownRenderer renders a finished answer as markdown for the
// inspect overlay. Rendering is lazy: the glamour renderer is built on
// first use at the current width and rebuilt after a resize.
type markdownRenderer struct {
	enabled  bool
	width    int
	renderer *glamour.TermRenderer
}

// newMarkdownRenderer creates a renderer. When disabled, Render returns
// its input untouched.
func newMarkdownRenderer(enabled bool) *markdownRenderer {
	return &markdownRenderer{enabled: enabled, width: 80}
}

// SetWidth updates the wrap width, invalidating the built renderer.
func (r *markdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width != r.width {
		r.width = width
		r.renderer = nil
	}
}

// Render renders markdown text for terminal display. Any renderer
// failure falls back to the raw text; inspection must never lose
// content.
func (r *markdownRenderer) Render(text string) string {
	if !r.enabled {
		return text
	}

	if r.renderer == nil {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return text
		}
		r.renderer = renderer
	}

	out, err := r.renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
