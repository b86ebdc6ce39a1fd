// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/util"
)

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a conversation into one output format.
type Exporter interface {
	// Export renders the conversation as a complete document.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the extension for the format (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type of the format.
	MimeType() string
}

// Options configures what an export includes.
type Options struct {
	// IncludeMetadata adds a header with model, timestamps, and token
	// counts.
	IncludeMetadata bool

	// IncludeReasoning keeps reasoning spans in the output, rendered
	// separately from the visible text. When false they are dropped.
	IncludeReasoning bool
}

// DefaultOptions includes metadata but drops reasoning, which is the
// right shape for sharing an answer.
func DefaultOptions() Options {
	return Options{IncludeMetadata: true, IncludeReasoning: false}
}

// ForFormat returns the exporter for a format name. Recognized names
// are "md"/"markdown", "html", and "json".
func ForFormat(format string, opts Options) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{opts: opts}, nil
	case "html":
		return &HTMLExporter{opts: opts}, nil
	case "json":
		return &JSONExporter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (md, html, json)", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ToFile renders the conversation and writes it to path. An empty path
// gets a generated name in the current directory. Returns the path
// written.
func ToFile(conv *model.Conversation, exporter Exporter, path string) (string, error) {
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if path == "" {
		name := fmt.Sprintf("prism-%s-%s%s",
			sanitizeFilename(conv.Title),
			time.Now().Format("20060102-150405"),
			exporter.FileExtension(),
		)
		path = filepath.Join(".", name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("export: %w", err)
		}
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// sanitizeFilename maps a conversation title onto something safe in a
// file name on both Unix and Windows.
func sanitizeFilename(s string) string {
	runes := []rune(s)
	if len(runes) > 40 {
		runes = runes[:40]
	}
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case r == ' ' || r == '\t':
			out = append(out, '_')
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r < 32 || r == 127:
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "conversation"
	}
	return string(out)
}

func roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	case model.RoleSystem:
		return "System"
	case model.RoleTool:
		return "Tool"
	default:
		return string(role)
	}
}
