// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR DEFINITION TESTS
// =============================================================================

func TestAccentColors(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Violet", Violet},
		{"VioletDeep", VioletDeep},
		{"Teal", Teal},
		{"TealDeep", TealDeep},
		{"Emerald", Emerald},
		{"Rose", Rose},
		{"Amber", Amber},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark variants", c.name)
		}
		if !strings.HasPrefix(c.color.Light, "#") || !strings.HasPrefix(c.color.Dark, "#") {
			t.Errorf("%s should use hex colors", c.name)
		}
	}
}

func TestReasoningColorsDiffer(t *testing.T) {
	// The reasoning treatment must be visually distinct from body text.
	if ReasoningFg == TextPrimary {
		t.Error("ReasoningFg should differ from TextPrimary")
	}
	if ReasoningBg == AssistantBubbleBg {
		t.Error("ReasoningBg should differ from AssistantBubbleBg")
	}
}

// =============================================================================
// STATUS INDICATOR TESTS
// =============================================================================

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}

	for _, ind := range indicators {
		if ind == "" {
			t.Error("indicator should not be empty")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q should be ASCII-only", ind)
			}
		}
	}
}

func TestRenderStatusIncludesIndicator(t *testing.T) {
	ok := RenderStatus(true, "saved")
	if !strings.Contains(ok, "[OK]") || !strings.Contains(ok, "saved") {
		t.Errorf("RenderStatus(true) = %q", ok)
	}

	fail := RenderStatus(false, "failed")
	if !strings.Contains(fail, "[X]") || !strings.Contains(fail, "failed") {
		t.Errorf("RenderStatus(false) = %q", fail)
	}
}
