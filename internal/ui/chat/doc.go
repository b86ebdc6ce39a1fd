// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// The chat Model is a Bubble Tea model hosting the whole conversation
// surface: message transcript, typewriter reveal of streamed answers,
// reasoning preview carousel, task status panel, live event log, and
// the input area with slash commands.
//
// Timing discipline: the model owns every timer. The reveal scheduler,
// the preview carousel, and the poll controllers are pure state
// machines driven by tea.Tick messages scheduled here. Poll ticks are
// stamped with the controller generation and validated on arrival, so
// a tick scheduled for a superseded session is dropped unprocessed.
//
// Segmentation is recomputed synchronously whenever displayed content
// changes; there is never a frame where content and its segmentation
// disagree.
package chat
