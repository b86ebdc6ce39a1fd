// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/prism-tui/internal/model"
)

// JSONExporter renders a conversation as a machine-readable document.
// The schema is flat and stable: one metadata object plus a message
// array with visible text and reasoning as separate fields.
type JSONExporter struct {
	opts Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts Options) *JSONExporter {
	return &JSONExporter{opts: opts}
}

func (e *JSONExporter) FileExtension() string { return ".json" }
func (e *JSONExporter) MimeType() string      { return "application/json" }

type jsonDocument struct {
	Title     string        `json:"title"`
	Model     string        `json:"model"`
	CreatedAt time.Time     `json:"created_at"`
	Tokens    int           `json:"tokens,omitempty"`
	Messages  []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Reasoning string    `json:"reasoning,omitempty"`
	Model     string    `json:"model,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	doc := jsonDocument{
		Title:     conv.Title,
		Model:     conv.Model,
		CreatedAt: conv.CreatedAt,
		Tokens:    conv.TokensUsed,
		Messages:  make([]jsonMessage, 0, len(conv.Messages)),
	}

	for _, msg := range conv.Messages {
		view := msg.Merged(false)
		out := jsonMessage{
			Role:      string(msg.Role),
			Text:      view.VisibleText,
			Model:     msg.Model,
			Timestamp: msg.Timestamp,
		}
		if e.opts.IncludeReasoning {
			out.Reasoning = view.ReasoningText
		}
		doc.Messages = append(doc.Messages, out)
	}

	return json.MarshalIndent(doc, "", "  ")
}
