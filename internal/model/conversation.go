// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxMessages bounds conversation history. Old messages are pruned to
// prevent unbounded memory growth in long sessions.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with its history and
// metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Model is the gateway model new assistant turns target.
	Model string `json:"model"`

	// Context tracking
	TokensUsed int `json:"tokens_used"`
	MaxTokens  int `json:"max_tokens"`

	// System prompt (optional)
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation(model string) *Conversation {
	return &Conversation{
		ID:        "conv_" + uuid.NewString(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
		Model:     model,
		MaxTokens: 128000,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes derived metadata.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends a streaming assistant message
// targeting the conversation's current model.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage(c.Model)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddToolMessage creates and appends a tool result message.
func (c *Conversation) AddToolMessage(toolName, runID, result string, success bool) *Message {
	msg := NewToolMessage(toolName, runID, result, success)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast appends a token to the last message if it is streaming.
func (c *Conversation) AppendToLast(token string) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.AppendToken(token)
	}
}

// FinalizeLast finalizes the last streaming message with statistics.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.FinalizeStream(stats)
		c.updateTokenEstimate()
	}
}

// MessageByID returns a message by its ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// RemoveMessage removes a message by ID.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			c.updateTokenEstimate()
			return true
		}
	}
	return false
}

// ClearHistory removes all messages.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.TokensUsed = 0
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// DERIVED METADATA
// =============================================================================

// updateTitle derives the title from the first user message.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(60)
			return
		}
	}
}

// updateTokenEstimate recomputes the rough token usage.
func (c *Conversation) updateTokenEstimate() {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
	}
	if c.SystemPrompt != "" {
		total += (len(c.SystemPrompt) + 3) / 4
	}
	c.TokensUsed = total
}

// ContextPercent returns how much of the context window is used.
func (c *Conversation) ContextPercent() float64 {
	if c.MaxTokens <= 0 {
		return 0
	}
	return float64(c.TokensUsed) / float64(c.MaxTokens) * 100
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) > MaxMessages {
		c.Messages = c.Messages[len(c.Messages)-MaxMessages:]
	}
}

// =============================================================================
// GATEWAY CONVERSION
// =============================================================================

// Turn is the provider-neutral form of one message sent to the gateway.
type Turn struct {
	Role    string
	Content string
}

// Turns converts the conversation to the gateway request shape. Tool
// messages are skipped; reasoning markers in assistant history are
// stripped so hidden deliberation is never re-sent as context.
func (c *Conversation) Turns() []Turn {
	turns := make([]Turn, 0, len(c.Messages)+1)

	if c.SystemPrompt != "" {
		turns = append(turns, Turn{Role: RoleSystem.String(), Content: c.SystemPrompt})
	}

	for _, msg := range c.Messages {
		if msg.Role == RoleTool || msg.IsEmpty() {
			continue
		}
		content := msg.RawContent()
		if msg.Role == RoleAssistant {
			content = strings.TrimSpace(msg.Merged(true).VisibleText)
			if content == "" {
				continue
			}
		}
		turns = append(turns, Turn{Role: msg.Role.String(), Content: content})
	}

	return turns
}
