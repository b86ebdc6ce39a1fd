// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"html/template"
	"time"

	"github.com/jeranaias/prism-tui/internal/model"
)

// HTMLExporter renders a conversation as a standalone dark-themed
// page. No external assets; the style block is inlined so the file
// travels on its own.
type HTMLExporter struct {
	opts Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts Options) *HTMLExporter {
	return &HTMLExporter{opts: opts}
}

func (e *HTMLExporter) FileExtension() string { return ".html" }
func (e *HTMLExporter) MimeType() string      { return "text/html" }

type htmlDocument struct {
	Title    string
	Model    string
	Created  string
	Tokens   int
	Metadata bool
	Messages []htmlMessage
}

type htmlMessage struct {
	Role      string
	RoleClass string
	Text      string
	Reasoning string
}

var htmlTmpl = template.Must(template.New("conversation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: #1a1b26; color: #c0caf5; font-family: -apple-system, "Segoe UI", sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
h1 { color: #bb9af7; border-bottom: 1px solid #414868; padding-bottom: 0.5rem; }
.meta { color: #565f89; font-size: 0.85rem; margin-bottom: 2rem; }
.message { margin: 1.5rem 0; padding: 1rem; border-radius: 8px; white-space: pre-wrap; }
.message .role { font-weight: 600; font-size: 0.8rem; text-transform: uppercase; letter-spacing: 0.05em; margin-bottom: 0.5rem; }
.user { background: #24283b; }
.user .role { color: #7dcfff; }
.assistant { background: #1f2335; }
.assistant .role { color: #9ece6a; }
.system { background: #292e42; font-style: italic; }
.system .role { color: #e0af68; }
details { margin-bottom: 0.75rem; color: #565f89; }
details summary { cursor: pointer; color: #bb9af7; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Metadata}}<div class="meta">{{.Model}} &middot; {{.Created}}{{if .Tokens}} &middot; {{.Tokens}} tokens{{end}}</div>{{end}}
{{range .Messages}}<div class="message {{.RoleClass}}">
<div class="role">{{.Role}}</div>
{{if .Reasoning}}<details><summary>Reasoning</summary>{{.Reasoning}}</details>{{end}}{{.Text}}</div>
{{end}}</body>
</html>
`))

func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	title := conv.Title
	if title == "" {
		title = "Conversation"
	}
	doc := htmlDocument{
		Title:    title,
		Model:    conv.Model,
		Created:  conv.CreatedAt.Format(time.RFC1123),
		Tokens:   conv.TokensUsed,
		Metadata: e.opts.IncludeMetadata,
	}

	for _, msg := range conv.Messages {
		view := msg.Merged(false)
		if view.VisibleText == "" && view.ReasoningText == "" {
			continue
		}
		out := htmlMessage{
			Role:      roleLabel(msg.Role),
			RoleClass: string(msg.Role),
			Text:      view.VisibleText,
		}
		if e.opts.IncludeReasoning {
			out.Reasoning = view.ReasoningText
		}
		doc.Messages = append(doc.Messages, out)
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
