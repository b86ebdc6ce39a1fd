// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// This file implements the slash commands typed into the input area.
package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/events"
	"github.com/jeranaias/prism-tui/internal/export"
	"github.com/jeranaias/prism-tui/internal/model"
)

// helpText lists the available slash commands.
const helpText = `Commands:
  /help               show this help
  /models             list gateway models
  /model <name>       switch the active model
  /new                start a new conversation
  /clear              clear the current conversation
  /save               save the conversation
  /sessions           list saved conversations
  /load <n|id>        load a saved conversation
  /export [md|html|json] [path]  export the transcript
  /eval <job-id>      track an eval job
  /run <run-id>       track a tool run and stream its events
  /cancel             cancel the tracked task
  /filter [agent]     filter the event log by agent id
  /disconnect         close the event stream
  /reasoning          expand or collapse reasoning
  /reveal on|off      toggle the typewriter effect
  /quit               exit

Keys: Enter send, Esc cancel, C-r reasoning, C-e events,
C-s sessions, C-g inspect, C-left/C-right reasoning frames,
C-o pause preview, C-c quit`

// handleCommand executes one slash command.
func (m Model) handleCommand(input string) (Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help":
		m.conversation.AddSystemMessage(helpText)
		m.chatView.SetMessages(m.conversation.Messages)
		return m, nil

	case "/models":
		return m, m.listModelsCmd()

	case "/model":
		if len(args) == 0 {
			return m.showError("Usage", "/model <name>, see /models for the list"), nil
		}
		return m.switchModel(args[0]), nil

	case "/new":
		return m.newConversation(), nil

	case "/clear":
		m.conversation.ClearHistory()
		m.chatView.SetMessages(m.conversation.Messages)
		return m, nil

	case "/save":
		return m, m.saveQuietCmd()

	case "/sessions":
		return m, m.listSessionsCmd()

	case "/load":
		if len(args) == 0 {
			return m.showError("Usage", "/load <number|id>, see /sessions"), nil
		}
		return m, m.loadSessionCmd(args[0])

	case "/export":
		format := "md"
		path := ""
		for _, arg := range args {
			switch arg {
			case "md", "markdown", "html", "json":
				format = arg
			default:
				path = arg
			}
		}
		return m, m.exportCmd(format, path)

	case "/eval":
		if len(args) == 0 {
			return m.showError("Usage", "/eval <job-id>"), nil
		}
		return m.attachEval(args[0])

	case "/run":
		if len(args) == 0 {
			return m.showError("Usage", "/run <run-id>"), nil
		}
		return m.attachRun(args[0])

	case "/cancel":
		return m.cancelTask()

	case "/filter":
		agent := ""
		if len(args) > 0 {
			agent = args[0]
		}
		m.eventLog.SetFilter(events.Filter{AgentID: agent})
		if agent == "" {
			m.eventView.SetFilterLabel("")
		} else {
			m.eventView.SetFilterLabel("agent " + agent)
		}
		return m, nil

	case "/disconnect":
		if m.eventStream != nil {
			m.eventStream.Disconnect()
			m.eventView.SetConnected(false)
		}
		return m, nil

	case "/reasoning":
		m.reasoningExpanded = !m.reasoningExpanded
		m.chatView.SetReasoningExpanded(m.reasoningExpanded)
		m.chatView.UpdateLastMessage()
		return m, nil

	case "/reveal":
		if len(args) == 0 {
			return m.showError("Usage", "/reveal on|off"), nil
		}
		enabled := strings.EqualFold(args[0], "on")
		m.revealer.SetEnabled(enabled)
		if enabled {
			m.statusNote = "typewriter reveal on"
		} else {
			m.statusNote = "typewriter reveal off"
		}
		return m, nil

	case "/quit", "/exit":
		m.cancelStream()
		return m, tea.Quit

	default:
		return m.showError("Unknown command", cmd+", try /help"), nil
	}
}

// =============================================================================
// MODEL AND CONVERSATION COMMANDS
// =============================================================================

// listModelsCmd fetches the gateway model listing.
func (m Model) listModelsCmd() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		models, err := client.ListModels(ctx)
		return ModelsLoadedMsg{Models: models, Error: err}
	}
}

// switchModel points new assistant turns at a different gateway model.
func (m Model) switchModel(name string) Model {
	m.conversation.Model = name
	m.header.SetModel(name)
	m.statusBar.SetModel(name)
	m.conversation.AddSystemMessage("Model switched to " + name)
	m.chatView.SetMessages(m.conversation.Messages)
	return m
}

// newConversation starts a fresh conversation on the same model.
func (m Model) newConversation() Model {
	m.conversation = model.NewConversation(m.conversation.Model)
	m.chatView.SetMessages(m.conversation.Messages)
	m.streamMsgID = ""
	m.statusNote = "new conversation"
	return m
}

// saveQuietCmd persists the conversation through the store.
func (m Model) saveQuietCmd() tea.Cmd {
	if m.deps.Store == nil || m.conversation.IsEmpty() {
		return nil
	}
	store := m.deps.Store
	conv := m.conversation
	return func() tea.Msg {
		id, err := store.Save(conv)
		return ConversationSavedMsg{ID: id, Error: err}
	}
}

// listSessionsCmd loads the saved conversation listing.
func (m Model) listSessionsCmd() tea.Cmd {
	if m.deps.Store == nil {
		return func() tea.Msg {
			return NewErrorMsg("Sessions", "Conversation storage is not available.")
		}
	}
	store := m.deps.Store
	return func() tea.Msg {
		sessions, err := store.List()
		return SessionsLoadedMsg{Sessions: sessions, Error: err}
	}
}

// loadSessionCmd loads a conversation by list index or id.
func (m Model) loadSessionCmd(ref string) tea.Cmd {
	if m.deps.Store == nil {
		return func() tea.Msg {
			return NewErrorMsg("Sessions", "Conversation storage is not available.")
		}
	}
	store := m.deps.Store
	return func() tea.Msg {
		if n, err := strconv.Atoi(ref); err == nil {
			conv, err := store.LoadByIndex(n - 1)
			return ConversationLoadedMsg{Conversation: conv, Error: err}
		}
		conv, err := store.Load(ref)
		return ConversationLoadedMsg{Conversation: conv, Error: err}
	}
}

// exportCmd writes the transcript in the requested format. Reasoning
// spans stay out of the document unless reasoning is shown expanded.
func (m Model) exportCmd(format, path string) tea.Cmd {
	conv := m.conversation
	if conv.IsEmpty() {
		return func() tea.Msg {
			return NewErrorMsg("Export", "Nothing to export yet.")
		}
	}
	opts := export.DefaultOptions()
	opts.IncludeReasoning = m.reasoningExpanded
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return func() tea.Msg {
			return NewErrorMsg("Export", err.Error())
		}
	}
	return func() tea.Msg {
		written, err := export.ToFile(conv, exporter, path)
		return ExportDoneMsg{Path: written, Error: err}
	}
}

// =============================================================================
// TASK COMMANDS
// =============================================================================

// attachEval starts tracking an eval job. Re-activation retires the
// previous session's generation, so any timer it left behind arrives
// stale.
func (m Model) attachEval(jobID string) (Model, tea.Cmd) {
	m.runPoll.Stop()
	m.evalGen = m.evalPoll.Activate(jobID)
	m.activeTask = taskEval
	m.pollFailures = 0

	m.evalJob = evals.NewJob("eval "+jobID, m.conversation.Model)
	m.evalJob.ID = jobID

	spinnerCmd := m.taskPanel.Track("eval", jobID)
	m.taskPanel.SetPollState(m.evalPoll.CurrentInterval(), 0)
	// Seed the panel from the shared cache so a re-attach shows the
	// last known status before the first fetch lands.
	if status, ok := m.cachedStatus("eval:" + jobID); ok {
		m.taskPanel.SetStatus(status)
	}
	m.chatView.SetSize(m.width, m.transcriptHeight())

	// Immediate fetch on activation; the ladder paces the rest.
	return m, tea.Batch(spinnerCmd, m.evalFetchCmd(m.evalGen))
}

// attachRun starts tracking a tool run and connects its event stream.
func (m Model) attachRun(runID string) (Model, tea.Cmd) {
	m.evalPoll.Stop()
	m.evalJob = nil
	m.runGen = m.runPoll.Activate(runID)
	m.activeTask = taskRun
	m.pollFailures = 0

	spinnerCmd := m.taskPanel.Track("run", runID)
	m.taskPanel.SetPollState(m.runPoll.CurrentInterval(), 0)
	if status, ok := m.cachedStatus("run:" + runID); ok {
		m.taskPanel.SetStatus(status)
	}
	m.showEvents = true
	m.chatView.SetSize(m.width, m.transcriptHeight())

	// Immediate fetch on activation, plus the event socket dial.
	return m, tea.Batch(spinnerCmd, m.runFetchCmd(m.runGen), m.connectEventsCmd(runID))
}

// connectEventsCmd dials the run's event socket. Records land in the
// buffer from the read goroutine; the drain tick moves them into the
// log on the UI loop.
func (m *Model) connectEventsCmd(runID string) tea.Cmd {
	if m.eventStream != nil {
		m.eventStream.Disconnect()
	}

	cfg := m.deps.Config
	stream := events.NewStream(events.StreamConfig{
		URL:             m.deps.Client.EventsURL(runID),
		Token:           cfg.Gateway.APIKey,
		MaxMessageBytes: int64(cfg.Events.MaxMessageKB) * 1024,
	}, m.eventBuf.push)
	m.eventStream = stream

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := stream.Connect(ctx); err != nil {
			return NewErrorMsgWithSuggestions("Event stream", err.Error(), []string{
				"The run may have already finished",
				"Reattach with /run " + runID,
			})
		}
		return EventDrainMsg{Time: time.Now()}
	}
}

// cancelTask asks the gateway to cancel the tracked task and stops its
// poll session.
func (m Model) cancelTask() (Model, tea.Cmd) {
	client := m.deps.Client

	switch m.activeTask {
	case taskEval:
		jobID := m.evalPoll.TaskID()
		m.evalPoll.Stop()
		m.taskPanel.SetStatus(evals.StatusCanceled)
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.CancelEval(ctx, jobID); err != nil {
				return NewErrorMsg("Cancel", err.Error())
			}
			return nil
		}

	case taskRun:
		runID := m.runPoll.TaskID()
		m.runPoll.Stop()
		m.taskPanel.SetStatus(evals.StatusCanceled)
		if m.eventStream != nil {
			m.eventStream.Disconnect()
		}
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.CancelRun(ctx, runID); err != nil {
				return NewErrorMsg("Cancel", err.Error())
			}
			return nil
		}

	default:
		return m.showError("Cancel", "No tracked task. Attach one with /eval or /run."), nil
	}
}
