// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL handler for the prism CLI.
//
// Handles "prism chat", a plain readline-style conversation loop for
// terminals where the full TUI is unwanted (ssh sessions, scripts run
// with a pty, minimal terminals).
//
// Interactive commands:
//   /help             Show available commands
//   /clear            Clear conversation history
//   /model [name]     Show or switch model
//   /models           List gateway models
//   /status           Show session statistics
//   /quit             Exit chat
//   Ctrl+C            Cancel current generation
//   Ctrl+D            Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.loadHistory()
	return cli
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation. Non-empty input is
// appended to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists the history file with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession holds state for one REPL conversation.
type chatSession struct {
	conv    *model.Conversation
	client  *gateway.Client
	input   *ChatCLI
	quiet   bool
	start   time.Time
	prompts int
	tokens  int
}

// HandleChatCommand runs the interactive REPL until /quit or EOF.
func HandleChatCommand(args Args) error {
	if !IsTTY() {
		return errors.New("stdin is not a terminal; use `prism ask` for piped input")
	}

	cfg := config.Global()

	modelName := args.Model
	if modelName == "" {
		modelName = cfg.DefaultModel
	}

	session := &chatSession{
		conv:   model.NewConversation(modelName),
		client: newGatewayClient(cfg, args),
		input:  NewChatCLI(),
		quiet:  args.Quiet,
		start:  time.Now(),
	}
	defer session.input.Close()

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("prism chat"))
		fmt.Printf("Model: %s | Gateway: %s\n", modelName, session.client.BaseURL())
		fmt.Printf("Type %s for commands, %s to exit\n\n",
			commandStyle.Render("/help"), commandStyle.Render("/quit"))
	}

	for {
		input, err := session.input.ReadInput(promptStyle.Render("> "))
		if err != nil {
			// Ctrl+C on an empty prompt or Ctrl+D both end the session.
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := session.handleREPLCommand(input); done {
				break
			}
			continue
		}

		session.sendTurn(input)
	}

	if !args.Quiet {
		session.printSummary()
	}
	return nil
}

// sendTurn streams one exchange, canceling on SIGINT.
func (s *chatSession) sendTurn(text string) {
	s.conv.AddUserMessage(text)
	s.conv.AddAssistantMessage()
	s.prompts++

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Println()
	content, stats, err := s.client.StreamChat(ctx, s.conv.Model, s.conv.Turns(), func(token string) {
		fmt.Print(token)
	})
	fmt.Println()

	if err != nil {
		if ctx.Err() != nil {
			fmt.Println(errorStyle.Render("[canceled]"))
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
		// Keep whatever arrived before the failure.
	}

	if content != "" {
		s.conv.AppendToLast(content)
	}
	s.conv.FinalizeLast(stats)

	if stats != nil {
		s.tokens += stats.PromptTokens + stats.CompletionTokens
		if !s.quiet && stats.TokensPerSecond > 0 {
			fmt.Printf("%s\n\n", summaryLabelStyle.Render(
				fmt.Sprintf("[%d tokens, %.1f tok/s]",
					stats.PromptTokens+stats.CompletionTokens,
					stats.TokensPerSecond)))
		}
	}
}

// handleREPLCommand executes one slash command; it returns true when
// the session should end.
func (s *chatSession) handleREPLCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help", "/h":
		fmt.Println(`Commands:
  /help             show this help
  /clear            clear conversation history
  /model [name]     show or switch model
  /models           list gateway models
  /status           show session statistics
  /quit             exit`)

	case "/clear", "/c":
		s.conv.ClearHistory()
		fmt.Println("Conversation cleared.")

	case "/model":
		if len(parts) > 1 {
			s.conv.Model = parts[1]
			fmt.Printf("Model switched to %s\n", parts[1])
		} else {
			fmt.Printf("Current model: %s\n", s.conv.Model)
		}

	case "/models":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		models, err := s.client.ListModels(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			break
		}
		for _, info := range models {
			fmt.Printf("  %s\n", info.ID)
		}

	case "/status", "/s":
		s.printSummary()

	case "/quit", "/q", "/exit":
		return true

	default:
		fmt.Printf("Unknown command %s, try /help\n", cmd)
	}
	return false
}

// printSummary prints session statistics.
func (s *chatSession) printSummary() {
	elapsed := time.Since(s.start).Round(time.Second)
	fmt.Printf("\n%s\n", separatorStyle.Render(strings.Repeat("─", 45)))
	fmt.Printf("%s %d | %s %d | %s %v\n",
		summaryLabelStyle.Render("Prompts:"), s.prompts,
		summaryLabelStyle.Render("Tokens:"), s.tokens,
		summaryLabelStyle.Render("Elapsed:"), elapsed)
}
