// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events maintains a bounded, correlation-filtered view of the
// append-only event stream emitted by a long-running tool invocation.
//
// Records are kept in chronological order with oldest-eviction once the
// buffer is full. The display layer reverses the rendered lines so the
// most recent activity is on top.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// RECORD TYPE
// =============================================================================

// Type classifies one event on the run stream.
type Type string

const (
	// TypeChunk is a fragment of tool output. Chunks are never merged;
	// each renders as its own line.
	TypeChunk Type = "chunk"

	// TypeResult is the final result of the invocation.
	TypeResult Type = "result"

	// TypeAck is a gateway acknowledgement of a control request.
	TypeAck Type = "ack"

	// TypeDisconnect marks the stream closing.
	TypeDisconnect Type = "disconnect"

	// TypeDropNotice is synthesized at render time when a chunk reports
	// lost bytes or lines; it is never stored in the log.
	TypeDropNotice Type = "drop"
)

// Record is one event observed on a run stream.
type Record struct {
	TS   time.Time `json:"ts"`
	Type Type      `json:"type"`

	// Correlation identifiers. Empty means broadcast: the record is
	// visible regardless of the active filter.
	AgentID   string `json:"agentId,omitempty"`
	RequestID string `json:"requestId,omitempty"`

	// Text is chunk content.
	Text string `json:"text,omitempty"`

	// Payload carries the structured body of result/ack/disconnect
	// events, serialized for inspection when rendered.
	Payload map[string]any `json:"payload,omitempty"`

	// Drop counters reported alongside a chunk by the transport when it
	// had to discard data.
	DroppedBytes int `json:"droppedBytes,omitempty"`
	DroppedLines int `json:"droppedLines,omitempty"`
}

// dropped reports whether the transport lost data before this chunk.
func (r Record) dropped() bool {
	return r.DroppedBytes > 0 || r.DroppedLines > 0
}

// renderPayload serializes the payload compactly for a transcript line.
func (r Record) renderPayload() string {
	if len(r.Payload) == 0 {
		return "{}"
	}
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return fmt.Sprintf("<unserializable: %v>", err)
	}
	return string(data)
}

// Line renders the record as a single transcript line.
func (r Record) Line() string {
	switch r.Type {
	case TypeChunk:
		return r.Text
	case TypeResult:
		return "[result] " + r.renderPayload()
	case TypeAck:
		return "[ack] " + r.renderPayload()
	case TypeDisconnect:
		return "[disconnect] " + r.renderPayload()
	default:
		return "[" + string(r.Type) + "] " + r.renderPayload()
	}
}

// dropLine renders the synthesized loss indicator that precedes a chunk
// with non-zero drop counters.
func (r Record) dropLine() string {
	return fmt.Sprintf("[drop] %d bytes, %d lines lost", r.DroppedBytes, r.DroppedLines)
}
