// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a rendered code block.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with line numbers and syntax
// highlighting.
func (c CodeBlock) Render() string {
	code := strings.TrimSpace(c.Code)

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	highlightedCode := highlightCode(code, language)
	lines := strings.Split(highlightedCode, "\n")

	var renderedLines []string

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	for i, line := range lines {
		lineNum := lineNumStyle.Render(strconv.Itoa(i + 1))
		// Line already carries ANSI codes from chroma.
		renderedLines = append(renderedLines, lineNum+line)
	}

	codeContent := strings.Join(renderedLines, "\n")

	var header string
	if c.Language != "" {
		langBadge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.SurfaceDim).
			Padding(0, 1).
			Bold(true).
			Render(c.Language)
		header = langBadge + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	block := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(1, 2).
		MaxWidth(maxWidth).
		Render(header + codeContent)

	return block
}

// =============================================================================
// MARKDOWN CODE BLOCK PARSER
// =============================================================================

// ContentPart is one run of prose or one fenced code block extracted
// from assistant markdown.
type ContentPart struct {
	IsCode   bool
	Language string
	Text     string
}

// SplitFenced splits markdown text into prose runs and fenced code
// blocks, preserving order. An unclosed fence is treated as code so a
// streaming answer highlights mid-block.
func SplitFenced(text string) []ContentPart {
	lines := strings.Split(text, "\n")
	var parts []ContentPart
	var inCodeBlock bool
	var proseLines []string
	var codeLines []string
	var language string

	flushProse := func() {
		if len(proseLines) == 0 {
			return
		}
		prose := strings.Join(proseLines, "\n")
		proseLines = nil
		if strings.TrimSpace(prose) == "" {
			return
		}
		parts = append(parts, ContentPart{Text: prose})
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCodeBlock {
				parts = append(parts, ContentPart{
					IsCode:   true,
					Language: language,
					Text:     strings.Join(codeLines, "\n"),
				})
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				flushProse()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
		} else if inCodeBlock {
			codeLines = append(codeLines, line)
		} else {
			proseLines = append(proseLines, line)
		}
	}

	// Unclosed fence: a streaming answer may end mid-block.
	if inCodeBlock && len(codeLines) > 0 {
		parts = append(parts, ContentPart{
			IsCode:   true,
			Language: language,
			Text:     strings.Join(codeLines, "\n"),
		})
	}
	flushProse()

	return parts
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightCode applies syntax highlighting to code using chroma,
// falling back to plain text on any failure.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return code
	}

	return buf.String()
}

// detectLanguage attempts to detect the programming language of the
// given code.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
