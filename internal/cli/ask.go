// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the prism CLI.
//
// Handles "prism ask", which sends one question through the gateway and
// streams the answer to stdout. On a TTY the answer is collected and
// rendered as markdown; piped output streams plain tokens as they
// arrive.
//
// Examples:
//   prism ask "What is the capital of France?"
//   prism ask --json "List the HTTP safe methods"
//   prism ask "Review this code:" --file main.go
//   cat error.log | prism ask "What went wrong here?"
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/segment"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// MaxFileSize is the largest file --file will inline (50KB).
const MaxFileSize = 50 * 1024

// =============================================================================
// STYLES
// =============================================================================

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.Teal)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary)

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(styles.Emerald)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var markdownRenderer *glamour.TermRenderer

func init() {
	markdownRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
}

// renderMarkdown renders markdown for terminal display, falling back to
// the raw content when the renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// FILE READING
// =============================================================================

// readFileForContext reads a file and formats it for inclusion in a
// prompt. Files larger than MaxFileSize are rejected.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("\n--- File: %s ---\n", path))
	builder.Write(content)
	builder.WriteString("\n--- End of file ---\n")
	return builder.String(), nil
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// askJSONOutput is the --json response shape.
type askJSONOutput struct {
	Response         string `json:"response"`
	Reasoning        string `json:"reasoning,omitempty"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	DurationMs       int64  `json:"duration_ms"`
}

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	cfg := config.Global()

	question := args.Query

	// Piped stdin supplements or replaces the positional query.
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		reader := bufio.NewReader(os.Stdin)
		if stdinData, err := io.ReadAll(reader); err == nil && len(stdinData) > 0 {
			piped := strings.TrimSpace(string(stdinData))
			if question == "" {
				question = piped
			} else {
				question = question + "\n\n" + piped
			}
			if !args.Quiet && !args.JSON {
				fmt.Fprintf(os.Stderr, "%s Read %d bytes from stdin\n",
					infoStyle.Render("[+]"), len(stdinData))
			}
		}
	}

	if question == "" {
		return fmt.Errorf("no question provided. Usage: prism ask \"your question\"")
	}

	if args.File != "" {
		fileContent, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		question += "\n" + fileContent
		if !args.Quiet && !args.JSON {
			fmt.Fprintf(os.Stderr, "%s Including file: %s\n",
				infoStyle.Render("[+]"), args.File)
		}
	}

	client := newGatewayClient(cfg, args)

	modelName := args.Model
	if modelName == "" {
		modelName = cfg.DefaultModel
	}

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s %s via %s\n\n",
			infoStyle.Render("Model:"), modelName, client.BaseURL())
	}

	turns := []model.Turn{{Role: "user", Content: question}}

	// Collect the full answer when rendering markdown or JSON at the
	// end; stream tokens straight through otherwise.
	useMarkdown := IsStdoutTTY() && !args.JSON
	streamPlain := !args.JSON && !useMarkdown

	start := time.Now()
	content, stats, err := client.StreamChat(context.Background(), modelName, turns, func(token string) {
		if streamPlain {
			fmt.Print(token)
		}
	})
	duration := time.Since(start)

	if err != nil {
		if !args.JSON {
			fmt.Fprintf(os.Stderr, "\n%s %v\n", errorStyle.Render("[Error]"), err)
		}
		return err
	}

	merged := segment.SplitMerged(content, true)

	if args.JSON {
		out := askJSONOutput{
			Response:   merged.VisibleText,
			Reasoning:  merged.ReasoningText,
			Model:      modelName,
			DurationMs: duration.Milliseconds(),
		}
		if stats != nil {
			out.PromptTokens = stats.PromptTokens
			out.CompletionTokens = stats.CompletionTokens
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if useMarkdown {
		fmt.Print(renderMarkdown(merged.VisibleText))
	}
	fmt.Println()

	if !args.Quiet {
		displayStatsSummary(modelName, stats, duration)
	}
	return nil
}

// newGatewayClient builds a gateway client from config plus CLI
// overrides.
func newGatewayClient(cfg *config.Config, args Args) *gateway.Client {
	baseURL := cfg.Gateway.BaseURL
	if args.Gateway != "" {
		baseURL = args.Gateway
	}
	return gateway.NewClient(gateway.Config{
		BaseURL:           baseURL,
		APIKey:            cfg.Gateway.APIKey,
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
		Timeout:           cfg.GatewayTimeout(),
	})
}

// displayStatsSummary prints the post-answer token and timing line.
func displayStatsSummary(modelName string, stats *model.Statistics, duration time.Duration) {
	separator := strings.Repeat("─", 45)
	fmt.Fprintln(os.Stderr, separatorStyle.Render(separator))

	promptTokens, completionTokens := 0, 0
	tps := 0.0
	if stats != nil {
		promptTokens = stats.PromptTokens
		completionTokens = stats.CompletionTokens
		tps = stats.TokensPerSecond
	}

	fmt.Fprintf(os.Stderr, "%s %s | %s %s | %s %v",
		summaryLabelStyle.Render("Model:"),
		summaryValueStyle.Render(modelName),
		summaryLabelStyle.Render("Tokens:"),
		summaryValueStyle.Render(fmt.Sprintf("%d+%d", promptTokens, completionTokens)),
		summaryLabelStyle.Render("Time:"),
		duration.Round(time.Millisecond))

	if tps > 0 {
		fmt.Fprintf(os.Stderr, " | %s %.1f tok/s", summaryLabelStyle.Render("Speed:"), tps)
	}
	fmt.Fprintln(os.Stderr)
}
