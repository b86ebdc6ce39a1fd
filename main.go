// Prism TUI - A conversational terminal interface for the Prism gateway.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/prism-tui/internal/cache"
	"github.com/jeranaias/prism-tui/internal/cli"
	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/storage"
	"github.com/jeranaias/prism-tui/internal/ui/chat"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.9.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

// =============================================================================
// ENTRY POINT
// =============================================================================

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAskCommand(args)
	case cli.CmdChat:
		err = cli.HandleChatCommand(args)
	case cli.CmdModels:
		err = cli.HandleModelsCommand(args)
	case cli.CmdEval:
		err = cli.HandleEvalCommand(args)
	case cli.CmdRun:
		err = cli.HandleRunCommand(args)
	case cli.CmdHistory:
		err = cli.HandleHistoryCommand(args)
	case cli.CmdDoctor:
		err = cli.HandleDoctorCommand(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// TUI
// =============================================================================

// app adapts chat.Model to the tea.Model interface.
type app struct {
	chat chat.Model
}

func (a app) Init() tea.Cmd {
	return a.chat.Init()
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a app) View() string {
	return a.chat.View()
}

func runTUI(args cli.Args) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use `prism ask` for piped output")
	}

	cfg := config.Global()
	if args.Gateway != "" {
		cfg.Gateway.BaseURL = args.Gateway
	}
	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}

	client := gateway.NewClient(gateway.Config{
		BaseURL:           cfg.Gateway.BaseURL,
		APIKey:            cfg.Gateway.APIKey,
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
		Timeout:           cfg.GatewayTimeout(),
	})

	deps := chat.Deps{
		Config: cfg,
		Client: client,
	}

	// Storage, history, and cache are conveniences: the TUI still runs
	// without them, so failures warn rather than abort.
	store, err := storage.NewConversationStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize session storage: %v\n", err)
	} else {
		deps.Store = store
	}

	history, err := evals.OpenHistory("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open eval history: %v\n", err)
	} else {
		deps.History = history
		defer history.Close()
	}

	if cfg.Cache.Enabled {
		deps.Cache = newCacheStore(cfg)
		defer deps.Cache.Close()
	}

	m := chat.New(deps, styles.NewTheme())
	p := tea.NewProgram(app{chat: m}, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher, err := config.NewWatcher(func(fresh *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: fresh})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config watcher unavailable: %v\n", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// newCacheStore picks the cache backend: redis when configured, local
// memory otherwise. A redis that cannot be reached falls back to
// memory so a dead broker never blocks the TUI.
func newCacheStore(cfg *config.Config) cache.Store {
	if cfg.Cache.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.Cache.RedisURL)
		if err == nil {
			return store
		}
		fmt.Fprintf(os.Stderr, "Warning: Redis cache unavailable, using memory: %v\n", err)
	}
	return cache.NewMemoryStore()
}
