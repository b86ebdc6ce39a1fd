// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"LineSpinner", LineSpinner},
		{"DotsSpinner", DotsSpinner},
		{"PulseSpinner", PulseSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want time.Duration
	}{
		{"10 FPS", 10, time.Second / 10},
		{"6 FPS", 6, time.Second / 6},
		{"8 FPS", 8, time.Second / 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SpinnerConfig{FPS: tc.fps}
			if got := config.Duration(); got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
		want    string
	}{
		{"empty", 4, 0, "----"},
		{"half", 4, 50, "##--"},
		{"full", 4, 100, "####"},
		{"clamped high", 4, 150, "####"},
		{"clamped low", 4, -10, "----"},
		{"zero width", 0, 50, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderProgressBar(tc.width, tc.percent)
			if got != tc.want {
				t.Errorf("RenderProgressBar(%d, %v) = %q, want %q", tc.width, tc.percent, got, tc.want)
			}
		})
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, width := range []int{1, 10, 80} {
		bar := RenderProgressBar(width, 33)
		if len(bar) != width {
			t.Errorf("width %d: len = %d", width, len(bar))
		}
		if strings.ContainsAny(bar, " ") {
			t.Errorf("bar should not contain spaces: %q", bar)
		}
	}
}
