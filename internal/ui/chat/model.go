// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prism-tui/internal/cache"
	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/events"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/poll"
	"github.com/jeranaias/prism-tui/internal/reveal"
	"github.com/jeranaias/prism-tui/internal/storage"
	"github.com/jeranaias/prism-tui/internal/ui/components"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the streaming phase of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streamed response
)

// taskKind identifies which poll controller owns the task panel.
type taskKind int

const (
	taskNone taskKind = iota
	taskEval
	taskRun
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Deps are the injected collaborators of the chat model.
type Deps struct {
	Config  *config.Config
	Client  *gateway.Client
	Store   *storage.ConversationStore
	History *evals.History // optional; nil disables eval history
	Cache   cache.Store    // optional; nil disables status caching
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	deps  Deps
	theme *styles.Theme

	width  int
	height int

	state State

	// Conversation
	conversation *model.Conversation

	// Streaming
	streamMsgID  string
	revealGen    int
	tokenBuf     *TokenBuffer
	streamCancel context.CancelFunc
	revealing    bool

	// Typewriter reveal
	revealer *reveal.Scheduler

	// Components
	header    *components.Header
	statusBar *components.StatusBar
	chatView  *components.ChatViewport
	input     *components.InputArea
	thinking  components.Spinner
	taskPanel *components.TaskPanel
	carousel  *components.Carousel
	errBox    components.ErrorDisplay

	// Reasoning display
	reasoningExpanded bool
	collapseReasoning bool

	// Task polling
	evalPoll     *poll.Controller[gateway.EvalState]
	runPoll      *poll.Controller[gateway.RunState]
	activeTask   taskKind
	evalGen      int
	runGen       int
	evalJob      *evals.Job
	pollFailures int

	// Live events
	eventLog    *events.Log
	eventStream *events.Stream
	eventBuf    *recordBuffer
	eventView   *components.EventLogView
	showEvents  bool

	// Inspect overlay (glamour-rendered last answer)
	inspecting  bool
	inspectText string
	markdown    *markdownRenderer

	// Session list overlay
	showSessions bool
	sessions     []storage.ConversationMeta

	keyMap KeyMap

	statusNote string
}

// New creates the chat model.
func New(deps Deps, theme *styles.Theme) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	conv := model.NewConversation(cfg.DefaultModel)

	revealer := reveal.NewScheduler(reveal.Config{
		BaseChunkSize:         cfg.Reveal.BaseChunkSize,
		MaxChunkSize:          cfg.Reveal.MaxChunkSize,
		AccelerateAtRemaining: cfg.Reveal.AccelerateAtRemaining,
		TickInterval:          time.Duration(cfg.Reveal.TickMillis) * time.Millisecond,
	})
	revealer.SetEnabled(cfg.Reveal.Enabled)

	pollCfg := poll.Config{
		Ladder:      ladderFromSecs(cfg.Poll.LadderSecs),
		MaxFailures: cfg.Poll.MaxFailures,
	}

	var client *gateway.Client
	if deps.Client != nil {
		client = deps.Client
	} else {
		client = gateway.NewClient(gateway.Config{BaseURL: cfg.Gateway.BaseURL, APIKey: cfg.Gateway.APIKey})
	}
	deps.Config = cfg
	deps.Client = client

	evalPoll := poll.NewController(pollCfg,
		func(ctx context.Context, jobID string) (gateway.EvalState, error) {
			return client.EvalStatus(ctx, jobID)
		},
		func(s gateway.EvalState) bool { return s.Status.IsTerminal() },
	)
	runPoll := poll.NewController(pollCfg,
		func(ctx context.Context, runID string) (gateway.RunState, error) {
			return client.RunStatus(ctx, runID)
		},
		func(s gateway.RunState) bool { return s.Status.IsTerminal() },
	)

	eventLog := events.NewLog(cfg.Events.Capacity)

	header := components.NewHeader(theme)
	header.SetModel(conv.Model)

	statusBar := components.NewStatusBar(theme)
	statusBar.SetModel(conv.Model)
	statusBar.SetGatewayURL(cfg.Gateway.BaseURL)
	statusBar.ShowTokens = cfg.UI.ShowTokens

	chatView := components.NewChatViewport(theme)
	chatView.SetCollapseReasoning(cfg.Rendering.CollapseReasoning)
	chatView.SetReasoningExpanded(cfg.Rendering.ShowReasoning)

	input := components.NewInputArea(theme)

	m := Model{
		deps:              deps,
		theme:             theme,
		state:             StateReady,
		conversation:      conv,
		tokenBuf:          NewTokenBuffer(),
		revealer:          revealer,
		header:            header,
		statusBar:         statusBar,
		chatView:          chatView,
		input:             input,
		thinking:          components.NewThinkingSpinner(),
		taskPanel:         components.NewTaskPanel(theme),
		carousel:          components.NewCarousel(theme),
		reasoningExpanded: cfg.Rendering.ShowReasoning,
		collapseReasoning: cfg.Rendering.CollapseReasoning,
		evalPoll:          evalPoll,
		runPoll:           runPoll,
		eventLog:          eventLog,
		eventBuf:          &recordBuffer{},
		eventView:         components.NewEventLogView(eventLog, theme),
		markdown:          newMarkdownRenderer(cfg.Rendering.EnableMarkdown),
		keyMap:            DefaultKeyMap(),
	}
	return m
}

// Init starts the background ticks and focuses the input.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Focus(),
		carouselTickCmd(m.carouselInterval()),
	)
}

// Conversation exposes the conversation for the hosting program.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// carouselInterval returns the configured preview rotation cadence.
func (m *Model) carouselInterval() time.Duration {
	millis := m.deps.Config.UI.CarouselIntervalMillis
	if millis <= 0 {
		millis = 1800
	}
	return time.Duration(millis) * time.Millisecond
}

// ladderFromSecs converts the configured ladder to durations. An empty
// ladder falls back to the poll package default.
func ladderFromSecs(secs []int) []time.Duration {
	ladder := make([]time.Duration, 0, len(secs))
	for _, s := range secs {
		if s > 0 {
			ladder = append(ladder, time.Duration(s)*time.Second)
		}
	}
	return ladder
}
