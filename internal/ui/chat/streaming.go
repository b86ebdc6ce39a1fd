// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// This file carries the hand-off buffers between background goroutines
// and the Bubble Tea loop. Token deltas and event records arrive on
// their own goroutines; both are accumulated under a mutex and drained
// on the model's own ticks, so view state is only ever mutated on the
// UI loop.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prism-tui/internal/events"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
)

// =============================================================================
// TOKEN BUFFER
// =============================================================================

// TokenBuffer accumulates stream token deltas from the gateway
// goroutine. The reveal tick drains it on the UI loop, so the pace of
// disclosure is owned by the reveal scheduler, not by the network.
type TokenBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

// NewTokenBuffer creates an empty token buffer.
func NewTokenBuffer() *TokenBuffer {
	return &TokenBuffer{}
}

// Write appends a token. Called from the streaming goroutine.
func (b *TokenBuffer) Write(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.WriteString(token)
}

// Drain returns and clears everything accumulated since the last
// drain. Called from the UI loop.
func (b *TokenBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	content := b.buf.String()
	b.buf.Reset()
	return content
}

// Pending returns the buffered byte count.
func (b *TokenBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Reset discards buffered content. Used when a stream is canceled or
// a new one starts.
func (b *TokenBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// =============================================================================
// EVENT RECORD BUFFER
// =============================================================================

// recordBuffer accumulates event records from the websocket read
// goroutine. The event drain tick moves them into the bounded log on
// the UI loop, because the log itself is not safe for concurrent use.
type recordBuffer struct {
	mu      sync.Mutex
	records []events.Record
}

// push appends a record. Called from the stream's read goroutine.
func (b *recordBuffer) push(r events.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, r)
}

// drain returns and clears the pending records.
func (b *recordBuffer) drain() []events.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	records := b.records
	b.records = nil
	return records
}

// =============================================================================
// STREAM COMMAND
// =============================================================================

// startStreamCmd launches the chat completion stream. Token deltas
// land in the token buffer as they arrive; the returned message
// carries the assembled content and statistics.
func startStreamCmd(ctx context.Context, client *gateway.Client, modelName string, turns []model.Turn, messageID string, buf *TokenBuffer) tea.Cmd {
	return func() tea.Msg {
		content, stats, err := client.StreamChat(ctx, modelName, turns, func(token string) {
			buf.Write(token)
		})
		return StreamCompleteMsg{
			MessageID: messageID,
			Content:   content,
			Stats:     stats,
			Error:     err,
		}
	}
}

// =============================================================================
// TICK COMMANDS
// =============================================================================

// revealTickCmd schedules the next typewriter tick, stamped with the
// reveal loop's generation.
func revealTickCmd(interval time.Duration, generation int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RevealTickMsg{Time: t, Generation: generation}
	})
}

// carouselTickCmd schedules the next preview rotation.
func carouselTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return CarouselTickMsg{Time: t}
	})
}

// evalPollTickCmd schedules the next eval poll fetch, stamped with the
// session generation it was scheduled for.
func evalPollTickCmd(interval time.Duration, generation int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return EvalPollTickMsg{Generation: generation}
	})
}

// runPollTickCmd schedules the next tool-run poll fetch.
func runPollTickCmd(interval time.Duration, generation int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RunPollTickMsg{Generation: generation}
	})
}

// eventDrainCmd schedules the next event buffer drain.
func eventDrainCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return EventDrainMsg{Time: t}
	})
}
