// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Prism TUI.

This package defines the color palette, theme, and animation system used
throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Violet - Primary accent for assistant messages and selections
  - Teal - Brand color for info, commands, and user highlights
  - Emerald - Success states and connected indicator
  - Amber - Warnings and running tasks
  - Rose - Errors and critical warnings

## Semantic Colors

Message bubbles, reasoning blocks, and UI elements use semantic tokens:

	UserBubbleBg      - Background for user messages
	AssistantBubbleBg - Background for assistant messages
	ReasoningBg       - Background for folded reasoning spans

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

# Animation System (animations.go)

Pre-defined spinner styles:

	LineSpinner  - Simple line rotation
	DotsSpinner  - Classic three-dot animation
	PulseSpinner - Pulsing indicator for active task polls

Status indicators are ASCII-only shapes alongside colors:

	StatusIndicators.Success - [OK]
	StatusIndicators.Error   - [X]

# Usage Example

	import "github.com/jeranaias/prism-tui/internal/ui/styles"

	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)
*/
package styles
