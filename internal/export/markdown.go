// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/prism-tui/internal/model"
)

// MarkdownExporter renders a conversation as a markdown document.
// Reasoning, when included, goes into a collapsed <details> block
// under the answer it belongs to.
type MarkdownExporter struct {
	opts Options
}

// NewMarkdownExporter creates a markdown exporter.
func NewMarkdownExporter(opts Options) *MarkdownExporter {
	return &MarkdownExporter{opts: opts}
}

func (e *MarkdownExporter) FileExtension() string { return ".md" }
func (e *MarkdownExporter) MimeType() string      { return "text/markdown" }

func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	var b strings.Builder

	title := conv.Title
	if title == "" {
		title = "Conversation"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if e.opts.IncludeMetadata {
		fmt.Fprintf(&b, "- **Model:** %s\n", conv.Model)
		fmt.Fprintf(&b, "- **Created:** %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "- **Messages:** %d\n", len(conv.Messages))
		if conv.TokensUsed > 0 {
			fmt.Fprintf(&b, "- **Tokens:** %d\n", conv.TokensUsed)
		}
		b.WriteString("\n---\n\n")
	}

	for _, msg := range conv.Messages {
		view := msg.Merged(false)
		if view.VisibleText == "" && view.ReasoningText == "" {
			continue
		}

		fmt.Fprintf(&b, "## %s\n\n", roleLabel(msg.Role))
		if e.opts.IncludeReasoning && view.ReasoningText != "" {
			b.WriteString("<details>\n<summary>Reasoning</summary>\n\n")
			b.WriteString(view.ReasoningText)
			b.WriteString("\n\n</details>\n\n")
		}
		if view.VisibleText != "" {
			b.WriteString(view.VisibleText)
			b.WriteString("\n\n")
		}
	}

	return []byte(b.String()), nil
}
