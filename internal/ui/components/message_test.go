// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

func newAssistant(content string) *model.Message {
	msg := model.NewMessage(model.RoleAssistant, content)
	return msg
}

func TestMessageBubbleHidesCollapsedReasoning(t *testing.T) {
	msg := newAssistant("<think>step by step analysis</think>The answer is 4.")
	b := NewMessageBubble(msg, styles.NewTheme())
	b.SetWidth(80)
	b.ShowTimestamp = false

	view := b.View()

	if strings.Contains(view, "<think>") {
		t.Error("rendered view leaked a reasoning marker")
	}
	if strings.Contains(view, "step by step analysis") {
		t.Error("collapsed view leaked reasoning text")
	}
	if !strings.Contains(view, "The answer is 4.") {
		t.Error("visible answer missing from view")
	}
	if !strings.Contains(view, "reasoning hidden") {
		t.Error("collapsed view missing reasoning summary line")
	}
}

func TestMessageBubbleExpandedReasoning(t *testing.T) {
	msg := newAssistant("<think>simple arithmetic</think>Four.")
	b := NewMessageBubble(msg, styles.NewTheme())
	b.SetWidth(80)
	b.ReasoningExpanded = true

	view := b.View()

	if !strings.Contains(view, "simple arithmetic") {
		t.Error("expanded view missing reasoning text")
	}
	if !strings.Contains(view, "Four.") {
		t.Error("expanded view missing visible answer")
	}
	if strings.Contains(view, "</think>") {
		t.Error("expanded view leaked a reasoning marker")
	}
}

func TestMessageBubbleInlineReasoningWhenNotCollapsed(t *testing.T) {
	msg := newAssistant("<think>visible deliberation</think>Answer.")
	b := NewMessageBubble(msg, styles.NewTheme())
	b.SetWidth(80)
	b.CollapseReasoning = false

	view := b.View()

	if !strings.Contains(view, "visible deliberation") {
		t.Error("uncollapsed view hid marker content")
	}
	if strings.Contains(view, "<think>") {
		t.Error("uncollapsed view kept the raw marker")
	}
	if strings.Contains(view, "reasoning hidden") {
		t.Error("uncollapsed view rendered a reasoning summary")
	}
}

func TestMessageBubbleUnterminatedTailHidden(t *testing.T) {
	// Mid-stream: the open marker has no close yet, so the whole tail
	// is deliberation and must not show as answer text.
	msg := model.NewAssistantMessage("openai/gpt-4o-mini")
	msg.AppendToken("Sure. <think>first I should consider")
	b := NewMessageBubble(msg, styles.NewTheme())
	b.SetWidth(80)

	view := b.View()

	if strings.Contains(view, "first I should consider") {
		t.Error("unterminated reasoning tail leaked into the view")
	}
	if !strings.Contains(view, "Sure.") {
		t.Error("text before the marker missing from view")
	}
}

func TestMessageBubbleRevealOverride(t *testing.T) {
	msg := newAssistant("the full final answer text")
	b := NewMessageBubble(msg, styles.NewTheme())
	b.SetWidth(80)
	b.SetRevealOverride("the full")

	view := b.View()

	if strings.Contains(view, "final answer text") {
		t.Error("reveal override did not truncate the rendered content")
	}
	if !strings.Contains(view, "the full") {
		t.Error("revealed prefix missing from view")
	}
}

func TestMessageBubbleToolRoles(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		want    string
	}{
		{"success", true, styles.StatusIndicators.Success},
		{"failure", false, styles.StatusIndicators.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := model.NewToolMessage("search", "run_1", "output line", tt.success)
			b := NewMessageBubble(msg, styles.NewTheme())
			b.SetWidth(80)
			b.ShowTimestamp = false

			view := b.View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("tool view missing indicator %q", tt.want)
			}
			if !strings.Contains(view, "search") {
				t.Error("tool view missing tool name")
			}
		})
	}
}

func TestMessageListEmptyState(t *testing.T) {
	ml := NewMessageList(styles.NewTheme())
	view := ml.View()

	if !strings.Contains(view, "No messages yet") {
		t.Errorf("empty list view = %q", view)
	}
}

func TestMessageListRevealAppliesToLastOnly(t *testing.T) {
	ml := NewMessageList(styles.NewTheme())
	ml.SetWidth(80)
	ml.SetMessages([]*model.Message{
		newAssistant("first complete response"),
		newAssistant("second response still arriving"),
	})
	ml.SetRevealText("second resp")

	view := ml.View()

	if !strings.Contains(view, "first complete response") {
		t.Error("earlier message content missing")
	}
	if strings.Contains(view, "still arriving") {
		t.Error("reveal override did not apply to the last message")
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "short line", 20, "short line"},
		{"wraps", "alpha beta gamma", 10, "alpha beta\ngamma"},
		{"zero width", "anything", 0, "anything"},
		{"preserves newlines", "a\nb", 10, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordWrap(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
}
