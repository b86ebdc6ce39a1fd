// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment

import (
	"strings"
)

// Reasoning span markers emitted by thinking-capable models.
const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Kind classifies a span of assistant output.
type Kind int

const (
	// KindText is visible answer content.
	KindText Kind = iota

	// KindReasoning is hidden model deliberation.
	KindReasoning
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindReasoning:
		return "reasoning"
	default:
		return "unknown"
	}
}

// Segment is one ordered span of assistant output.
type Segment struct {
	Kind  Kind
	Text  string
	Order int
}

// MergedView is the per-kind concatenation of a segment list.
type MergedView struct {
	// VisibleText is all text segments concatenated in order.
	VisibleText string

	// ReasoningText is all reasoning segments joined with a blank line.
	ReasoningText string
}

// =============================================================================
// SPLITTING
// =============================================================================

// Split scans content left to right for reasoning markers and returns
// the ordered segments.
//
// When collapseReasoning is true, marker-enclosed content becomes hidden
// reasoning segments. An open marker with no matching close marker means
// the generation is still streaming: the entire remaining tail becomes a
// single reasoning segment. When collapseReasoning is false, markers are
// stripped and their inner content stays in the visible stream.
//
// Empty spans never produce a segment.
func Split(content string, collapseReasoning bool) []Segment {
	if content == "" {
		return nil
	}

	var segs []Segment
	order := 0

	emit := func(kind Kind, text string) {
		if text == "" {
			return
		}
		segs = append(segs, Segment{Kind: kind, Text: text, Order: order})
		order++
	}

	rest := content
	for {
		open := strings.Index(rest, OpenMarker)
		if open < 0 {
			emit(KindText, rest)
			break
		}

		emit(KindText, rest[:open])
		rest = rest[open+len(OpenMarker):]

		end := strings.Index(rest, CloseMarker)
		if end < 0 {
			// Unterminated marker: the stream is mid-deliberation, so the
			// whole tail is reasoning for this observation of the string.
			if collapseReasoning {
				emit(KindReasoning, strings.TrimSpace(rest))
			} else {
				emit(KindText, rest)
			}
			break
		}

		inner := rest[:end]
		if collapseReasoning {
			emit(KindReasoning, strings.TrimSpace(inner))
		} else {
			emit(KindText, inner)
		}
		rest = rest[end+len(CloseMarker):]
	}

	return segs
}

// Merge concatenates same-kind segments in order. Reasoning spans are
// joined with a blank-line separator.
func Merge(segs []Segment) MergedView {
	var visible strings.Builder
	var reasoning []string

	for _, s := range segs {
		switch s.Kind {
		case KindText:
			visible.WriteString(s.Text)
		case KindReasoning:
			reasoning = append(reasoning, s.Text)
		}
	}

	return MergedView{
		VisibleText:   visible.String(),
		ReasoningText: strings.Join(reasoning, "\n\n"),
	}
}

// SplitMerged is the common Split+Merge path used by message views.
func SplitMerged(content string, collapseReasoning bool) MergedView {
	return Merge(Split(content, collapseReasoning))
}

// HasReasoning reports whether content contains a reasoning marker.
func HasReasoning(content string) bool {
	return strings.Contains(content, OpenMarker)
}
