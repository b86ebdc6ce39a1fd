// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/segment"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single message as a styled bubble. Assistant
// bubbles split the raw content into reasoning and answer spans;
// reasoning renders as a collapsible dimmed block above the answer.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	IsLatest      bool
	ShowTimestamp bool
	ShowStats     bool
	Streaming     bool

	// CollapseReasoning controls whether reasoning markers classify
	// content as hidden deliberation. When false, marker-enclosed text
	// stays inline with the answer.
	CollapseReasoning bool

	// ReasoningExpanded shows the full reasoning block instead of the
	// one-line summary. Only meaningful when CollapseReasoning is true.
	ReasoningExpanded bool

	// RevealOverride replaces the message content when set. The chat
	// layer passes the reveal scheduler's visible prefix here so the
	// bubble lags the stream instead of jumping ahead of it.
	RevealOverride string

	hasOverride bool

	theme *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		return &MessageBubble{
			Message: model.NewSystemMessage(""),
			Width:   80,
			theme:   theme,
		}
	}
	return &MessageBubble{
		Message:           msg,
		Width:             80,
		ShowTimestamp:     true,
		ShowStats:         true,
		Streaming:         msg.IsStreaming,
		CollapseReasoning: true,
		theme:             theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetIsLatest marks this as the latest message.
func (b *MessageBubble) SetIsLatest(latest bool) {
	b.IsLatest = latest
}

// SetRevealOverride substitutes the given text for the message content.
func (b *MessageBubble) SetRevealOverride(text string) {
	b.RevealOverride = text
	b.hasOverride = true
}

// content returns the text this bubble should render.
func (b *MessageBubble) content() string {
	if b.hasOverride {
		return b.RevealOverride
	}
	return b.Message.RawContent()
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	case model.RoleSystem:
		return b.renderSystemBubble()
	case model.RoleTool:
		return b.renderToolBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned feel
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.content()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrappedContent)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	roleIndicator := roleStyle.Render("you")

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	headerParts := []string{roleIndicator}
	if timestamp != "" {
		headerParts = append(headerParts, timestamp)
	}
	header := strings.Join(headerParts, " ")

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}

	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	headerLine := marginStyle.Render(header)
	bubbleLine := marginStyle.Render(bubble)

	return lipgloss.JoinVertical(lipgloss.Right, headerLine, bubbleLine)
}

// ==========================================================================
// ASSISTANT BUBBLE - Violet tones, reasoning-aware
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	merged := segment.SplitMerged(b.content(), b.CollapseReasoning)

	visible := merged.VisibleText
	if b.Streaming {
		visible += b.renderStreamingCursor()
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var parts []string

	if merged.ReasoningText != "" {
		parts = append(parts, b.renderReasoning(merged.ReasoningText, maxContentWidth))
	}

	if visible == "" && merged.ReasoningText == "" {
		visible = "..."
	}

	if visible != "" {
		parts = append(parts, b.renderVisibleParts(visible, maxContentWidth)...)
	}

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	roleIndicator := roleStyle.Render("assistant")

	modelBadge := ""
	if b.Message.Model != "" {
		modelBadge = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Render(b.Message.Model)
	}

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	headerParts := []string{roleIndicator}
	if modelBadge != "" {
		headerParts = append(headerParts, modelBadge)
	}
	if timestamp != "" {
		headerParts = append(headerParts, timestamp)
	}
	header := strings.Join(headerParts, " ")

	statsLine := ""
	if b.ShowStats && !b.Streaming && b.Message.TotalDuration > 0 {
		statsLine = b.renderStats()
	}

	body := append([]string{header}, parts...)
	result := lipgloss.JoinVertical(lipgloss.Left, body...)
	if statsLine != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, statsLine)
	}

	return result
}

// renderVisibleParts renders the visible answer, interleaving prose
// bubbles with syntax-highlighted fenced code blocks. Code stays
// outside the bubble so chroma's ANSI output is never re-wrapped.
func (b *MessageBubble) renderVisibleParts(visible string, maxContentWidth int) []string {
	var rendered []string
	for _, part := range SplitFenced(visible) {
		if part.IsCode {
			cb := NewCodeBlock(part.Language, part.Text)
			cb.SetMaxWidth(b.Width - 8)
			rendered = append(rendered, cb.Render())
			continue
		}

		wrappedContent := wordWrap(part.Text, maxContentWidth)
		contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

		bubbleStyle := lipgloss.NewStyle().
			Foreground(styles.AssistantBubbleFg).
			Background(styles.AssistantBubbleBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.AssistantBubbleBorder).
			Padding(0, 2).
			Width(contentWidth).
			MarginRight(4)

		rendered = append(rendered, bubbleStyle.Render(wrappedContent))
	}
	return rendered
}

// renderReasoning renders the reasoning spans, either as a one-line
// collapsed summary or as the full dimmed block.
func (b *MessageBubble) renderReasoning(reasoning string, maxWidth int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.ReasoningFg).
		Italic(true)

	if !b.ReasoningExpanded {
		chars := len([]rune(reasoning))
		return headerStyle.Render(
			"... reasoning hidden (" + strconv.Itoa(chars) + " chars, ctrl+r to show)")
	}

	wrapped := wordWrap(reasoning, maxWidth-4)

	block := lipgloss.NewStyle().
		Foreground(styles.ReasoningFg).
		Background(styles.ReasoningBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ReasoningBorder).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		Italic(true).
		PaddingLeft(2).
		MaxWidth(maxWidth).
		Render(wrapped)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("reasoning (ctrl+r to hide)"),
		block,
	)
}

// ==========================================================================
// SYSTEM BUBBLE - Amber tones, centered
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.content()
	if content == "" {
		content = "System message"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-16)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.SystemBubbleFg).
		Background(styles.SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.SystemBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Align(lipgloss.Center)

	bubble := bubbleStyle.Render(wrappedContent)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	label := labelStyle.Render("system")

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	header := label
	if timestamp != "" {
		header = label + " " + timestamp
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// TOOL BUBBLE - Emerald for success, Rose for error
// ==========================================================================

func (b *MessageBubble) renderToolBubble() string {
	content := b.Message.ToolResult
	if content == "" {
		content = b.content()
	}

	maxLines := 20
	lines := strings.Split(content, "\n")
	truncated := false
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}
	content = strings.Join(lines, "\n")
	if truncated {
		content += "\n... (output truncated)"
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	var bubbleStyle lipgloss.Style
	var iconStyle lipgloss.Style
	var icon string

	if b.Message.IsSuccess {
		bubbleStyle = lipgloss.NewStyle().
			Foreground(styles.ToolSuccessFg).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.SuccessHighContrast).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			PaddingLeft(2)

		iconStyle = lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true)
		icon = styles.StatusIndicators.Success
	} else {
		bubbleStyle = lipgloss.NewStyle().
			Foreground(styles.ToolErrorFg).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.ErrorHighContrast).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			PaddingLeft(2)

		iconStyle = lipgloss.NewStyle().
			Foreground(styles.ErrorHighContrast).
			Bold(true)
		icon = styles.StatusIndicators.Error
	}

	bubble := bubbleStyle.Render(wrappedContent)

	toolNameStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	toolName := b.Message.ToolName
	if toolName == "" {
		toolName = "Tool"
	}

	header := iconStyle.Render(icon) + " " + toolNameStyle.Render(toolName)

	if b.Message.ToolRunID != "" {
		header += " " + lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(b.Message.ToolRunID)
	}

	if b.ShowTimestamp {
		header += " " + b.renderTimestamp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// GENERIC BUBBLE - Fallback for unknown roles
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.content()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	if maxContentWidth > b.Width-2 {
		maxContentWidth = b.Width - 2
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2)

	return bubbleStyle.Render(wrappedContent)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

// renderTimestamp renders a dimmed timestamp.
func (b *MessageBubble) renderTimestamp() string {
	timestampStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string

	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}

	return timestampStyle.Render(formatted)
}

// renderStats renders the statistics line below a completed assistant
// bubble.
func (b *MessageBubble) renderStats() string {
	stats := b.Message.FormatStats()
	if stats == "" {
		return ""
	}

	statsStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		PaddingLeft(2)

	return statsStyle.Render(stats)
}

// renderStreamingCursor renders the streaming cursor animation.
func (b *MessageBubble) renderStreamingCursor() string {
	cursorStyle := lipgloss.NewStyle().
		Foreground(styles.Violet).
		Blink(true)

	return cursorStyle.Render("_")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]

		for _, word := range words[1:] {
			if runeLen(currentLine)+1+runeLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}

		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the width of the longest line in runes.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		lineWidth := runeLen(line)
		if lineWidth > maxWidth {
			maxWidth = lineWidth
		}
	}
	return maxWidth
}

// runeLen returns the number of runes in a string.
func runeLen(s string) int {
	return len([]rune(s))
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a conversation's messages as a vertical stack of
// bubbles.
type MessageList struct {
	Messages          []*model.Message
	Width             int
	ShowTimestamps    bool
	ShowStats         bool
	CollapseReasoning bool
	ReasoningExpanded bool

	// RevealText replaces the content of the last message when the
	// reveal scheduler is lagging the stream.
	RevealText    string
	hasRevealText bool

	theme *styles.Theme
}

// NewMessageList creates a new MessageList.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Messages:          []*model.Message{},
		Width:             80,
		ShowTimestamps:    true,
		ShowStats:         true,
		CollapseReasoning: true,
		theme:             theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// SetRevealText sets the reveal override for the last message.
func (ml *MessageList) SetRevealText(text string) {
	ml.RevealText = text
	ml.hasRevealText = true
}

// ClearRevealText removes the reveal override.
func (ml *MessageList) ClearRevealText() {
	ml.RevealText = ""
	ml.hasRevealText = false
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("No messages yet. Start a conversation!")
	}

	var bubbles []string

	for i, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowStats = ml.ShowStats
		bubble.CollapseReasoning = ml.CollapseReasoning
		bubble.ReasoningExpanded = ml.ReasoningExpanded
		bubble.SetIsLatest(i == len(ml.Messages)-1)

		if i == len(ml.Messages)-1 && ml.hasRevealText {
			bubble.SetRevealOverride(ml.RevealText)
		}

		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}
