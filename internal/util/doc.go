// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the prism TUI.
//
// The string helpers here are rune- and width-aware so that truncation
// and slicing never corrupt multi-byte UTF-8 text. Display width is
// computed with go-runewidth, which handles double-width CJK characters.
package util
