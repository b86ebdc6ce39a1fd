// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the prism TUI.

This package contains a collection of styled, interactive components built
on top of the Bubble Tea and Lip Gloss libraries. Each component is
designed to be consistent with the prism design language.

# Display Components

Header (header.go) - Application header with model name and mode badge.
StatusBar (statusbar.go) - Bottom status bar with connection state, token
usage, and shortcuts.
MessageBubble (message.go) - Styled message bubbles; assistant bubbles
split reasoning spans from the visible answer and render them as a
collapsible dimmed block.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
Carousel (carousel.go) - Rotating sentence-frame preview for collapsed
conversations in the session list.
TaskPanel (taskpanel.go) - Live status panel for a polled eval or tool
run, showing the current poll interval and failure count.
EventLogView (eventlog.go) - Bounded live event transcript with
drop-notice highlighting and correlation filter display.

# Input and Feedback

InputArea (input.go) - Styled single-line text input with character
counter.
Spinner (spinner.go) - Animated spinner with elapsed-time display.
ErrorDisplay (error.go) - Error boxes with optional suggestions.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetModel("openai/gpt-4o-mini")
	view := header.View()

Most stateful components follow the Bubble Tea Update/View pattern and
are driven from the chat model's Update loop.
*/
package components
