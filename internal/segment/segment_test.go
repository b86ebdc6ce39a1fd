// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment

import (
	"strings"
	"testing"
)

func TestSplitPlainText(t *testing.T) {
	segs := Split("just a plain answer", true)

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Kind != KindText {
		t.Errorf("expected KindText, got %v", segs[0].Kind)
	}
	if segs[0].Text != "just a plain answer" {
		t.Errorf("unexpected text: %q", segs[0].Text)
	}
}

func TestSplitBalancedMarkers(t *testing.T) {
	// Scenario: "Hello <think>reasoning here</think> world" with collapse
	merged := SplitMerged("Hello <think>reasoning here</think> world", true)

	if merged.VisibleText != "Hello  world" {
		t.Errorf("VisibleText = %q, want %q", merged.VisibleText, "Hello  world")
	}
	if merged.ReasoningText != "reasoning here" {
		t.Errorf("ReasoningText = %q, want %q", merged.ReasoningText, "reasoning here")
	}
}

func TestSplitUnterminatedMarker(t *testing.T) {
	// Mid-stream: the open marker has no close yet, so the whole tail is
	// reasoning for this observation.
	merged := SplitMerged("<think>partial", true)

	if merged.VisibleText != "" {
		t.Errorf("VisibleText = %q, want empty", merged.VisibleText)
	}
	if merged.ReasoningText != "partial" {
		t.Errorf("ReasoningText = %q, want %q", merged.ReasoningText, "partial")
	}
}

func TestSplitUnterminatedAfterText(t *testing.T) {
	segs := Split("Answer so far <think>still deliberating about", true)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Kind != KindText || segs[0].Text != "Answer so far " {
		t.Errorf("unexpected first segment: %+v", segs[0])
	}
	if segs[1].Kind != KindReasoning || segs[1].Text != "still deliberating about" {
		t.Errorf("unexpected second segment: %+v", segs[1])
	}
}

func TestSplitMultipleReasoningSpans(t *testing.T) {
	content := "a<think>first</think>b<think>second</think>c"
	merged := SplitMerged(content, true)

	if merged.VisibleText != "abc" {
		t.Errorf("VisibleText = %q, want %q", merged.VisibleText, "abc")
	}
	if merged.ReasoningText != "first\n\nsecond" {
		t.Errorf("ReasoningText = %q, want %q", merged.ReasoningText, "first\n\nsecond")
	}
}

func TestSplitCollapseDisabledUnwraps(t *testing.T) {
	merged := SplitMerged("Hello <think>reasoning here</think> world", false)

	if merged.VisibleText != "Hello reasoning here world" {
		t.Errorf("VisibleText = %q, want %q", merged.VisibleText, "Hello reasoning here world")
	}
	if merged.ReasoningText != "" {
		t.Errorf("ReasoningText = %q, want empty", merged.ReasoningText)
	}
}

func TestSplitEmptySpansNotEmitted(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty string", "", 0},
		{"empty reasoning", "<think></think>", 0},
		{"only open marker", "<think>", 0},
		{"text around empty reasoning", "a<think></think>b", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Split(tt.content, true)
			if len(segs) != tt.want {
				t.Errorf("Split(%q) produced %d segments, want %d", tt.content, len(segs), tt.want)
			}
		})
	}
}

func TestSplitOrderIsSequential(t *testing.T) {
	segs := Split("a<think>b</think>c<think>d</think>", true)

	for i, s := range segs {
		if s.Order != i {
			t.Errorf("segment %d has Order %d", i, s.Order)
		}
	}
}

func TestSplitRoundTrip(t *testing.T) {
	// For balanced markers with no whitespace padding inside them,
	// re-concatenating the spans in order reconstructs the original
	// content with the markers removed.
	inputs := []string{
		"Hello <think>reasoning here</think> world",
		"<think>only reasoning</think>",
		"no markers at all",
		"a<think>x</think>b<think>y</think>c",
		"前文<think>推理内容</think>后文",
	}

	for _, content := range inputs {
		segs := Split(content, true)

		var rebuilt strings.Builder
		for _, s := range segs {
			rebuilt.WriteString(s.Text)
		}

		stripped := strings.ReplaceAll(content, OpenMarker, "")
		stripped = strings.ReplaceAll(stripped, CloseMarker, "")
		if rebuilt.String() != stripped {
			t.Errorf("round trip of %q = %q, want %q", content, rebuilt.String(), stripped)
		}
	}
}

func TestHasReasoning(t *testing.T) {
	if !HasReasoning("<think>x") {
		t.Error("expected HasReasoning true for open marker")
	}
	if HasReasoning("plain text") {
		t.Error("expected HasReasoning false for plain text")
	}
}
