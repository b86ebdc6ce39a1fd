// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/segment"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// CAROUSEL COMPONENT
// =============================================================================

// Carousel rotates through sentence-pair frames of a collapsed
// response, one frame at a time. The frame list is derived once per
// content identity; a new identity resets the rotation to the first
// frame so two responses never interleave.
type Carousel struct {
	identity string
	text     string
	frames   []string
	index    int
	width    int
	paused   bool

	theme *styles.Theme
}

// NewCarousel creates a carousel with no content.
func NewCarousel(theme *styles.Theme) *Carousel {
	return &Carousel{
		width: 60,
		theme: theme,
	}
}

// SetWidth sets the frame display width.
func (c *Carousel) SetWidth(width int) {
	c.width = width
}

// SetContent installs the text to rotate through. The identity key ties
// the frame list to its source: a new identity restarts the rotation at
// frame zero, while re-observing the same identity with grown text
// re-splits the frames but holds the rotation position.
func (c *Carousel) SetContent(identity, text string) {
	if identity == c.identity && text == c.text {
		return
	}
	sameIdentity := identity == c.identity
	c.identity = identity
	c.text = text
	c.frames = segment.Frames(text)
	if !sameIdentity || c.index >= len(c.frames) {
		c.index = 0
	}
}

// Advance moves to the next frame on a rotation tick. Paused carousels
// hold their position.
func (c *Carousel) Advance() {
	if c.paused || len(c.frames) <= 1 {
		return
	}
	c.index = (c.index + 1) % len(c.frames)
}

// Next moves to the next frame regardless of pause state, wrapping to
// the first after the last.
func (c *Carousel) Next() {
	if len(c.frames) <= 1 {
		return
	}
	c.index = (c.index + 1) % len(c.frames)
}

// Prev moves to the previous frame, wrapping to the last before the
// first.
func (c *Carousel) Prev() {
	if len(c.frames) <= 1 {
		return
	}
	c.index = (c.index - 1 + len(c.frames)) % len(c.frames)
}

// TogglePaused flips the play/pause state and returns the new paused
// value.
func (c *Carousel) TogglePaused() bool {
	c.paused = !c.paused
	return c.paused
}

// SetPaused sets the pause state directly.
func (c *Carousel) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports whether rotation is suspended.
func (c *Carousel) Paused() bool {
	return c.paused
}

// FrameCount returns the number of frames.
func (c *Carousel) FrameCount() int {
	return len(c.frames)
}

// Index returns the current frame index.
func (c *Carousel) Index() int {
	return c.index
}

// Current returns the current frame's raw text, or "" when empty.
func (c *Carousel) Current() string {
	if len(c.frames) == 0 {
		return ""
	}
	return c.frames[c.index]
}

// View renders the current frame with a position counter. Multi-frame
// content shows "frame i/n"; single-frame content omits the counter.
func (c *Carousel) View() string {
	if len(c.frames) == 0 {
		return ""
	}

	maxWidth := c.width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	frame := util.TruncateWidth(c.frames[c.index], maxWidth)

	frameView := c.theme.CarouselFrame.Render(frame)

	if len(c.frames) == 1 {
		return frameView
	}

	counterText := "frame " + strconv.Itoa(c.index+1) + "/" + strconv.Itoa(len(c.frames))
	if c.paused {
		counterText += " (paused)"
	}
	counter := c.theme.CarouselCounter.Render(counterText)

	return lipgloss.JoinVertical(lipgloss.Left, frameView, counter)
}
