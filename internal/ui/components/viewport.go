// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT
// =============================================================================

// ChatViewport is the scrollable chat area with scroll indicators and
// auto-scroll that follows new content until the user scrolls away.
type ChatViewport struct {
	viewport    viewport.Model
	messages    []*model.Message
	width       int
	height      int
	ready       bool
	autoScroll  bool
	theme       *styles.Theme
	messageList *MessageList

	scrollY    int
	maxScrollY int
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return &ChatViewport{
		viewport:    vp,
		messages:    []*model.Message{},
		width:       80,
		height:      20,
		autoScroll:  true,
		theme:       theme,
		messageList: NewMessageList(theme),
	}
}

// SetSize updates the viewport dimensions.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = height
	cv.viewport.Width = width - 2
	cv.viewport.Height = height
	cv.messageList.SetWidth(width - 4)
	cv.ready = true

	cv.updateContent()
}

// SetMessages updates the messages to display.
func (cv *ChatViewport) SetMessages(messages []*model.Message) {
	cv.messages = messages
	cv.messageList.SetMessages(messages)
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

// AppendMessage adds a message to the list.
func (cv *ChatViewport) AppendMessage(msg *model.Message) {
	cv.messages = append(cv.messages, msg)
	cv.messageList.SetMessages(cv.messages)
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

// UpdateLastMessage re-renders after the last message changed (used
// during streaming and reveal ticks).
func (cv *ChatViewport) UpdateLastMessage() {
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

// SetCollapseReasoning sets whether reasoning markers hide their
// content.
func (cv *ChatViewport) SetCollapseReasoning(collapse bool) {
	cv.messageList.CollapseReasoning = collapse
	cv.updateContent()
}

// SetReasoningExpanded toggles the expanded reasoning blocks.
func (cv *ChatViewport) SetReasoningExpanded(expanded bool) {
	cv.messageList.ReasoningExpanded = expanded
	cv.updateContent()
}

// SetRevealText overrides the last message's content with the reveal
// scheduler's visible prefix.
func (cv *ChatViewport) SetRevealText(text string) {
	cv.messageList.SetRevealText(text)
	cv.UpdateLastMessage()
}

// ClearRevealText removes the reveal override.
func (cv *ChatViewport) ClearRevealText() {
	cv.messageList.ClearRevealText()
	cv.updateContent()
}

// updateContent re-renders the message content and updates scroll
// tracking.
func (cv *ChatViewport) updateContent() {
	content := cv.messageList.View()

	wrappedContent := wrapContentForViewport(content, cv.width-2)
	cv.viewport.SetContent(wrappedContent)

	lines := strings.Count(wrappedContent, "\n") + 1
	cv.maxScrollY = maxInt(0, lines-cv.height)

	cv.scrollY = cv.viewport.YOffset

	if cv.scrollY > cv.maxScrollY {
		cv.scrollY = cv.maxScrollY
	}
	if cv.scrollY < 0 {
		cv.scrollY = 0
	}
}

// ScrollToBottom scrolls to the bottom of the viewport.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.scrollY = cv.maxScrollY
	cv.autoScroll = true
}

// ScrollToTop scrolls to the top of the viewport.
func (cv *ChatViewport) ScrollToTop() {
	cv.viewport.GotoTop()
	cv.scrollY = 0
	cv.autoScroll = false
}

// ScrollUp scrolls up by the specified number of lines. The user took
// control, so auto-scroll turns off.
func (cv *ChatViewport) ScrollUp(lines int) {
	cv.autoScroll = false
	cv.scrollY = maxInt(0, cv.scrollY-lines)
	cv.viewport.SetYOffset(cv.scrollY)
}

// ScrollDown scrolls down by the specified number of lines,
// re-enabling auto-scroll at the bottom.
func (cv *ChatViewport) ScrollDown(lines int) {
	cv.scrollY = minInt(cv.maxScrollY, cv.scrollY+lines)
	cv.viewport.SetYOffset(cv.scrollY)

	if cv.scrollY >= cv.maxScrollY {
		cv.autoScroll = true
	}
}

// PageUp scrolls up by one page.
func (cv *ChatViewport) PageUp() {
	cv.autoScroll = false
	cv.scrollY = maxInt(0, cv.scrollY-cv.height)
	cv.viewport.SetYOffset(cv.scrollY)
}

// PageDown scrolls down by one page.
func (cv *ChatViewport) PageDown() {
	cv.scrollY = minInt(cv.maxScrollY, cv.scrollY+cv.height)
	cv.viewport.SetYOffset(cv.scrollY)

	if cv.scrollY >= cv.maxScrollY {
		cv.autoScroll = true
	}
}

// AtTop returns true if the viewport is at the top.
func (cv *ChatViewport) AtTop() bool {
	return cv.viewport.AtTop()
}

// AtBottom returns true if the viewport is at the bottom.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// ScrollPercent returns the scroll position as a percentage.
func (cv *ChatViewport) ScrollPercent() float64 {
	return cv.viewport.ScrollPercent()
}

// EnableAutoScroll enables automatic scrolling to bottom.
func (cv *ChatViewport) EnableAutoScroll() {
	cv.autoScroll = true
}

// DisableAutoScroll disables automatic scrolling.
func (cv *ChatViewport) DisableAutoScroll() {
	cv.autoScroll = false
}

// Update handles viewport updates with scroll tracking.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			cv.ScrollUp(1)
			return cv, nil
		case "down", "j":
			cv.ScrollDown(1)
			return cv, nil
		case "pgup":
			cv.PageUp()
			return cv, nil
		case "pgdn", "pgdown":
			cv.PageDown()
			return cv, nil
		case "home", "g":
			cv.ScrollToTop()
			return cv, nil
		case "end", "G":
			cv.ScrollToBottom()
			return cv, nil
		}

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cv.ScrollUp(3)
			return cv, nil
		case tea.MouseWheelDown:
			cv.ScrollDown(3)
			return cv, nil
		}
	}

	cv.viewport, cmd = cv.viewport.Update(msg)
	cv.scrollY = cv.viewport.YOffset

	return cv, cmd
}

// View renders the viewport with scroll indicators.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}

	viewportContent := cv.viewport.View()

	topIndicator := cv.renderTopIndicator()
	bottomIndicator := cv.renderBottomIndicator()

	var result strings.Builder

	if topIndicator != "" {
		result.WriteString(topIndicator)
		result.WriteString("\n")
	}

	result.WriteString(viewportContent)

	if bottomIndicator != "" {
		result.WriteString("\n")
		result.WriteString(bottomIndicator)
	}

	return result.String()
}

// ==========================================================================
// SCROLL INDICATORS
// ==========================================================================

// renderTopIndicator renders the "more above" indicator.
func (cv *ChatViewport) renderTopIndicator() string {
	if cv.AtTop() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Foreground(styles.Violet).
		Width(cv.width).
		Align(lipgloss.Center)

	arrowStyle := lipgloss.NewStyle().
		Foreground(styles.Teal)

	textStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	indicator := arrowStyle.Render("^") + " " +
		textStyle.Render("scroll up for more") + " " +
		arrowStyle.Render("^")

	return indicatorStyle.Render(indicator)
}

// renderBottomIndicator renders the "more below" indicator with scroll
// position.
func (cv *ChatViewport) renderBottomIndicator() string {
	if cv.AtBottom() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Foreground(styles.Violet).
		Width(cv.width).
		Align(lipgloss.Center)

	arrowStyle := lipgloss.NewStyle().
		Foreground(styles.Teal)

	textStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	posStyle := lipgloss.NewStyle().
		Foreground(styles.Violet).
		Bold(true)

	scrollPos := ""
	if cv.maxScrollY > 0 {
		scrollPos = posStyle.Render(fmt.Sprintf(" [%d/%d] ", cv.scrollY+1, cv.maxScrollY+1))
	}

	indicator := arrowStyle.Render("v") + scrollPos +
		textStyle.Render("scroll down for more") + " " +
		arrowStyle.Render("v")

	return indicatorStyle.Render(indicator)
}

// GetScrollPosition returns the current scroll position as a formatted
// string for display, e.g. "[15/100]".
func (cv *ChatViewport) GetScrollPosition() string {
	if cv.maxScrollY <= 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", cv.scrollY+1, cv.maxScrollY+1)
}

// =============================================================================
// CONTENT WRAPPING
// =============================================================================

// wrapContentForViewport wraps content lines to the viewport width
// using go-runewidth so wide characters are measured correctly.
func wrapContentForViewport(content string, width int) string {
	if width <= 0 {
		return content
	}

	var wrapped strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if wrapped.Len() > 0 {
			wrapped.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			wrapped.WriteString(line)
			continue
		}
		wrapped.WriteString(wordWrapWithRunewidth(line, width))
	}

	return wrapped.String()
}

// wordWrapWithRunewidth wraps a single line to the specified width,
// breaking at word boundaries when possible.
func wordWrapWithRunewidth(line string, width int) string {
	if width <= 0 {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	flush := func() {
		if currentLine.Len() == 0 {
			return
		}
		if result.Len() > 0 {
			result.WriteByte('\n')
		}
		result.WriteString(strings.TrimRight(currentLine.String(), " "))
		currentLine.Reset()
		currentWidth = 0
	}

	for _, word := range strings.Split(line, " ") {
		wordWidth := runewidth.StringWidth(word)

		if currentWidth > 0 && currentWidth+1+wordWidth > width {
			flush()
		}

		// A single word wider than the viewport breaks mid-word.
		if wordWidth > width {
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if currentWidth+rw > width {
					flush()
				}
				currentLine.WriteRune(r)
				currentWidth += rw
			}
			continue
		}

		if currentWidth > 0 {
			currentLine.WriteByte(' ')
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}

	flush()

	return result.String()
}
