// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/prism-tui/internal/model"
)

func testConversation() *model.Conversation {
	conv := model.NewConversation("openai/gpt-4o-mini")
	conv.Title = "Sorting help"
	conv.AddUserMessage("How do I sort a slice?")
	asst := conv.AddAssistantMessage()
	asst.Content = "<think>stdlib has slices.Sort.</think>Use slices.Sort from the standard library."
	asst.IsStreaming = false
	return conv
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		ok     bool
	}{
		{"md", ".md", true},
		{"markdown", ".md", true},
		{"html", ".html", true},
		{"json", ".json", true},
		{"pdf", "", false},
	}

	for _, tt := range tests {
		exp, err := ForFormat(tt.format, DefaultOptions())
		if tt.ok != (err == nil) {
			t.Errorf("ForFormat(%q) error = %v, want ok=%v", tt.format, err, tt.ok)
			continue
		}
		if tt.ok && exp.FileExtension() != tt.ext {
			t.Errorf("ForFormat(%q).FileExtension() = %q, want %q", tt.format, exp.FileExtension(), tt.ext)
		}
	}
}

func TestMarkdownExportDropsReasoningByDefault(t *testing.T) {
	exp := NewMarkdownExporter(DefaultOptions())
	out, err := exp.Export(testConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "# Sorting help") {
		t.Error("Missing title heading")
	}
	if !strings.Contains(text, "Use slices.Sort") {
		t.Error("Missing visible answer text")
	}
	if strings.Contains(text, "stdlib has slices.Sort") {
		t.Error("Reasoning leaked into export with IncludeReasoning=false")
	}
	if strings.Contains(text, "<think>") {
		t.Error("Raw reasoning markers leaked into export")
	}
}

func TestMarkdownExportIncludesReasoningWhenAsked(t *testing.T) {
	exp := NewMarkdownExporter(Options{IncludeMetadata: true, IncludeReasoning: true})
	out, err := exp.Export(testConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "stdlib has slices.Sort") {
		t.Error("Reasoning missing with IncludeReasoning=true")
	}
	if !strings.Contains(text, "<details>") {
		t.Error("Reasoning should be wrapped in a details block")
	}
}

func TestJSONExportSeparatesReasoning(t *testing.T) {
	exp := NewJSONExporter(Options{IncludeReasoning: true})
	out, err := exp.Export(testConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Title    string `json:"title"`
		Messages []struct {
			Role      string `json:"role"`
			Text      string `json:"text"`
			Reasoning string `json:"reasoning"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Export produced invalid JSON: %v", err)
	}

	if doc.Title != "Sorting help" {
		t.Errorf("Title = %q, want %q", doc.Title, "Sorting help")
	}
	if len(doc.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(doc.Messages))
	}
	asst := doc.Messages[1]
	if !strings.Contains(asst.Text, "Use slices.Sort") {
		t.Errorf("Assistant text = %q, missing visible answer", asst.Text)
	}
	if !strings.Contains(asst.Reasoning, "stdlib has slices.Sort") {
		t.Errorf("Assistant reasoning = %q, missing reasoning span", asst.Reasoning)
	}
	if strings.Contains(asst.Text, "stdlib has") {
		t.Error("Reasoning leaked into visible text field")
	}
}

func TestHTMLExportEscapesContent(t *testing.T) {
	conv := model.NewConversation("test-model")
	conv.Title = "Escaping"
	conv.AddUserMessage("Is <script>alert(1)</script> dangerous?")

	exp := NewHTMLExporter(DefaultOptions())
	out, err := exp.Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	text := string(out)
	if strings.Contains(text, "<script>alert") {
		t.Error("User content not HTML-escaped")
	}
	if !strings.Contains(text, "&lt;script&gt;") {
		t.Error("Expected escaped script tag in output")
	}
}

func TestToFileWritesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.md")

	exp := NewMarkdownExporter(DefaultOptions())
	written, err := ToFile(testConversation(), exp, path)
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}
	if written != path {
		t.Errorf("Written path = %q, want %q", written, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading export: %v", err)
	}
	if !strings.Contains(string(data), "# Sorting help") {
		t.Error("Exported file missing content")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sorting help", "Sorting_help"},
		{"a/b:c", "a-b-c"},
		{"", "conversation"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
