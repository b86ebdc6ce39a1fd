// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and
// messages exchanged with the Prism gateway.
//
// Assistant content may interleave visible answer text with hidden
// reasoning spans; the segment package splits them and Message exposes
// the merged view the UI renders.
package model
