// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits raw assistant output into ordered visible-text
// and reasoning spans, and groups reasoning spans into short preview
// frames for the collapsed reasoning carousel.
//
// Reasoning is delimited by <think>...</think> markers. The splitter is
// tolerant of an unterminated open marker, which happens routinely while
// a generation is still streaming: everything after the open marker is
// classified as reasoning for that observation of the string.
package segment
