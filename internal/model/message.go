// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/prism-tui/internal/segment"
	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	case RoleTool:
		return "Tool"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content. May contain reasoning markers while raw; the UI goes
	// through Merged rather than reading this directly for assistants.
	Content string `json:"content"`

	// Model is the gateway model that produced an assistant message.
	Model string `json:"model,omitempty"`

	// Streaming state (not persisted). strings.Builder avoids quadratic
	// allocations while tokens arrive.
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	// Token statistics
	TokenCount int `json:"token_count,omitempty"`

	// For tool messages
	ToolName   string `json:"tool_name,omitempty"`
	ToolRunID  string `json:"tool_run_id,omitempty"`
	ToolResult string `json:"tool_result,omitempty"`
	IsSuccess  bool   `json:"is_success,omitempty"`

	// Performance metrics (assistant messages)
	TTFT          time.Duration `json:"ttft_ns,omitempty"`
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"`
	TokensPerSec  float64       `json:"tokens_per_sec,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new streaming assistant message for the
// given gateway model.
func NewAssistantMessage(model string) *Message {
	msg := NewMessage(RoleAssistant, "")
	msg.Model = model
	msg.IsStreaming = true
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewToolMessage creates a new tool result message.
func NewToolMessage(toolName, runID, result string, success bool) *Message {
	msg := NewMessage(RoleTool, result)
	msg.ToolName = toolName
	msg.ToolRunID = runID
	msg.ToolResult = result
	msg.IsSuccess = success
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendToken appends a token to a streaming message.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream completes streaming and records statistics.
func (m *Message) FinalizeStream(stats *Statistics) {
	if !m.IsStreaming {
		return
	}

	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false

	if stats != nil {
		m.TTFT = stats.TTFT
		m.TotalDuration = stats.TotalDuration
		m.TokenCount = stats.CompletionTokens
		m.TokensPerSec = stats.TokensPerSecond
	}
}

// RawContent returns the current content, streaming or final.
func (m *Message) RawContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Merged splits the current content into visible and reasoning text.
// While the message is still streaming an unterminated reasoning marker
// classifies the whole tail as reasoning, so partial deliberation never
// leaks into the visible answer.
func (m *Message) Merged(collapseReasoning bool) segment.MergedView {
	return segment.SplitMerged(m.RawContent(), collapseReasoning)
}

// HasReasoning reports whether the message contains a reasoning span.
func (m *Message) HasReasoning() bool {
	return segment.HasReasoning(m.RawContent())
}

// Preview returns a truncated, reasoning-stripped preview of the
// message for conversation lists.
func (m *Message) Preview(maxLen int) string {
	visible := m.Merged(true).VisibleText
	return util.TruncateRunes(strings.TrimSpace(visible), maxLen)
}

// IsEmpty returns true if the message has no content at all.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// EstimateTokens gives a rough token estimate (~4 chars per token).
func (m *Message) EstimateTokens() int {
	return (len(m.RawContent()) + 3) / 4
}

// FormatStats returns a formatted statistics line for assistant
// messages, or "" when there is nothing to show.
func (m *Message) FormatStats() string {
	if m.Role != RoleAssistant || m.TotalDuration == 0 {
		return ""
	}
	return fmt.Sprintf("%s | %d tokens | %.1f tok/s | TTFT %dms",
		formatSeconds(m.TotalDuration.Seconds()),
		m.TokenCount,
		m.TokensPerSec,
		m.TTFT.Milliseconds(),
	)
}

// =============================================================================
// STATISTICS TYPE
// =============================================================================

// Statistics holds timing and token counts for one generation.
type Statistics struct {
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	PromptTokens     int
	CompletionTokens int

	TTFT            time.Duration
	TotalDuration   time.Duration
	TokensPerSecond float64
}

// NewStatistics creates a Statistics with the start time set.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// RecordFirstToken records when the first token arrived.
func (s *Statistics) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize computes the derived metrics.
func (s *Statistics) Finalize(tokenCount int) {
	s.EndTime = time.Now()
	s.CompletionTokens = tokenCount
	s.TotalDuration = s.EndTime.Sub(s.StartTime)

	if s.TotalDuration > 0 {
		s.TokensPerSecond = float64(tokenCount) / s.TotalDuration.Seconds()
	}
}

// formatSeconds renders a duration in seconds as "850ms" or "2.5s".
func formatSeconds(seconds float64) string {
	if seconds < 1 {
		return fmt.Sprintf("%dms", int(seconds*1000))
	}
	return fmt.Sprintf("%.1fs", seconds)
}
