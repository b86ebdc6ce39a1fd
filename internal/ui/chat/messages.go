// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// This file defines the Bubble Tea message types used by the chat
// interface, organized by concern:
//   - Streaming: stream start, completion, cancellation
//   - Reveal: typewriter tick
//   - Carousel: reasoning preview rotation tick
//   - Polling: generation-stamped ticks and fetch results
//   - Events: live event drain tick, stream lifecycle
//   - Gateway: model listing
//   - Conversation: save, load, session listing
//   - Errors: user-facing error reports
package chat

import (
	"time"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/storage"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a chat completion stream has begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamCompleteMsg signals that the stream finished, successfully or
// not. Content is the full assembled response; on error it holds
// whatever arrived before the failure.
type StreamCompleteMsg struct {
	MessageID string
	Content   string
	Stats     *model.Statistics
	Error     error
}

// NewStreamStartMsg creates a StreamStartMsg stamped with now.
func NewStreamStartMsg(messageID string) StreamStartMsg {
	return StreamStartMsg{MessageID: messageID, StartTime: time.Now()}
}

// =============================================================================
// TIMER MESSAGES
// =============================================================================

// RevealTickMsg drives the typewriter scheduler. Ticks keep flowing
// until the scheduler reports the full target visible and the stream
// has ended. Generation identifies the reveal loop that scheduled the
// tick; a tick from a superseded loop is dropped so starting a new
// message never leaves two loops advancing the same scheduler.
type RevealTickMsg struct {
	Time       time.Time
	Generation int
}

// CarouselTickMsg rotates the reasoning preview to its next frame.
type CarouselTickMsg struct {
	Time time.Time
}

// EvalPollTickMsg schedules the next status fetch for a polled eval
// job. The generation stamp is validated against the live controller
// session; a stale stamp means the tick belongs to a superseded
// session and is dropped.
type EvalPollTickMsg struct {
	Generation int
}

// RunPollTickMsg schedules the next status fetch for a polled tool run.
type RunPollTickMsg struct {
	Generation int
}

// EventDrainMsg drains buffered event records into the log while the
// event stream is connected.
type EventDrainMsg struct {
	Time time.Time
}

// =============================================================================
// POLL RESULT MESSAGES
// =============================================================================

// EvalPollDoneMsg reports one completed eval status fetch. Continue is
// false when the session hit its stop predicate or failure cap.
type EvalPollDoneMsg struct {
	Generation int
	Continue   bool
}

// RunPollDoneMsg reports one completed tool-run status fetch.
type RunPollDoneMsg struct {
	Generation int
	Continue   bool
}

// =============================================================================
// GATEWAY MESSAGES
// =============================================================================

// ModelsLoadedMsg delivers the gateway model listing.
type ModelsLoadedMsg struct {
	Models []gateway.ModelInfo
	Error  error
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ConversationSavedMsg confirms a save operation.
type ConversationSavedMsg struct {
	ID    string
	Error error
}

// ConversationLoadedMsg delivers a loaded conversation.
type ConversationLoadedMsg struct {
	Conversation *model.Conversation
	Error        error
}

// SessionsLoadedMsg delivers the stored conversation listing.
type SessionsLoadedMsg struct {
	Sessions []storage.ConversationMeta
	Error    error
}

// ExportDoneMsg confirms a transcript export.
type ExportDoneMsg struct {
	Path  string
	Error error
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg surfaces an error to the user as state, not a panic.
type ErrorMsg struct {
	Title       string
	Message     string
	Suggestions []string
}

// NewErrorMsg creates a plain error message.
func NewErrorMsg(title, message string) ErrorMsg {
	return ErrorMsg{Title: title, Message: message}
}

// NewErrorMsgWithSuggestions creates an error message with actionable
// suggestions.
func NewErrorMsgWithSuggestions(title, message string, suggestions []string) ErrorMsg {
	return ErrorMsg{Title: title, Message: message, Suggestions: suggestions}
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a freshly reloaded configuration. The
// watcher in main sends it when the config file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
