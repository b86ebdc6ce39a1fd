// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment

import (
	"strings"
)

// sentenceTerminators covers ASCII and CJK sentence-ending punctuation
// so bilingual reasoning text still groups into readable frames.
var sentenceTerminators = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// Frames breaks one reasoning span into short rotating preview frames.
//
// The policy is tiered and first-match-wins; each tier is consulted only
// when the previous one produced at most one frame:
//
//  1. paragraph boundaries (blank lines)
//  2. line boundaries (single newlines)
//  3. sentence boundaries, with consecutive sentences paired two at a
//     time so frames do not get too short
//  4. the whole text as a single frame
//
// All frames are trimmed and empty frames are dropped. Any non-empty
// input yields at least one frame.
func Frames(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if frames := cleanFrames(splitParagraphs(trimmed)); len(frames) > 1 {
		return frames
	}
	if frames := cleanFrames(strings.Split(trimmed, "\n")); len(frames) > 1 {
		return frames
	}
	if frames := cleanFrames(pairSentences(splitSentences(trimmed))); len(frames) > 1 {
		return frames
	}

	return []string{trimmed}
}

// splitParagraphs splits on blank-line boundaries. Lines containing only
// whitespace count as blank.
func splitParagraphs(text string) []string {
	lines := strings.Split(text, "\n")

	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// splitSentences splits text after sentence-ending punctuation, keeping
// the terminator with its sentence. A run of terminators ("?!", "...")
// stays attached to the sentence it ends.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if !sentenceTerminators[runes[i]] {
			continue
		}
		// Absorb any trailing terminators before cutting.
		for i+1 < len(runes) && sentenceTerminators[runes[i+1]] {
			i++
			current.WriteRune(runes[i])
		}
		sentences = append(sentences, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}

// pairSentences joins consecutive sentences two at a time into one frame.
func pairSentences(sentences []string) []string {
	var trimmed []string
	for _, s := range sentences {
		if t := strings.TrimSpace(s); t != "" {
			trimmed = append(trimmed, t)
		}
	}

	var frames []string
	for i := 0; i < len(trimmed); i += 2 {
		if i+1 < len(trimmed) {
			frames = append(frames, trimmed[i]+" "+trimmed[i+1])
		} else {
			frames = append(frames, trimmed[i])
		}
	}
	return frames
}

// cleanFrames trims every frame and drops empty ones.
func cleanFrames(frames []string) []string {
	var out []string
	for _, f := range frames {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}
