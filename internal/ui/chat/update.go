// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/segment"
	"github.com/jeranaias/prism-tui/internal/ui/components"
)

// pollFetchTimeout bounds one status fetch.
const pollFetchTimeout = 10 * time.Second

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case CarouselTickMsg:
		if !m.reasoningExpanded {
			m.carousel.Advance()
		}
		return m, carouselTickCmd(m.carouselInterval())

	case EvalPollTickMsg:
		// Stale-timer discipline: a tick from a superseded session is
		// dropped unprocessed.
		if !m.evalPoll.ValidTick(msg.Generation) {
			return m, nil
		}
		return m, m.evalFetchCmd(msg.Generation)

	case RunPollTickMsg:
		if !m.runPoll.ValidTick(msg.Generation) {
			return m, nil
		}
		return m, m.runFetchCmd(msg.Generation)

	case EvalPollDoneMsg:
		return m.handleEvalPollDone(msg)

	case RunPollDoneMsg:
		return m.handleRunPollDone(msg)

	case EventDrainMsg:
		return m.handleEventDrain()

	case ModelsLoadedMsg:
		return m.handleModelsLoaded(msg)

	case SessionsLoadedMsg:
		if msg.Error != nil {
			return m.showError("Sessions", msg.Error.Error()), nil
		}
		m.sessions = msg.Sessions
		m.showSessions = true
		return m, nil

	case ConversationSavedMsg:
		if msg.Error != nil {
			return m.showError("Save failed", msg.Error.Error()), nil
		}
		m.statusNote = "saved " + msg.ID
		return m, nil

	case ConversationLoadedMsg:
		return m.handleConversationLoaded(msg)

	case ExportDoneMsg:
		if msg.Error != nil {
			return m.showError("Export failed", msg.Error.Error()), nil
		}
		m.conversation.AddSystemMessage("Exported transcript to " + msg.Path)
		m.chatView.SetMessages(m.conversation.Messages)
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.deps.Config = msg.Config
			m.statusNote = "config reloaded"
		}
		return m, nil

	case ErrorMsg:
		return m.showErrorMsg(msg), nil

	default:
		// Spinner frames and other component-internal messages.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		cmds = append(cmds, cmd)
		m.taskPanel, cmd = m.taskPanel.Update(msg)
		cmds = append(cmds, cmd)
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// RESIZE
// =============================================================================

// handleResize distributes the new terminal size to every component.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.input.SetWidth(msg.Width)
	m.taskPanel.SetWidth(msg.Width)
	m.carousel.SetWidth(msg.Width - 4)
	m.eventView.SetSize(msg.Width, m.eventPanelHeight())
	m.markdown.SetWidth(msg.Width - 4)

	m.chatView.SetSize(msg.Width, m.transcriptHeight())
	return m
}

// transcriptHeight is the viewport height left after fixed chrome.
func (m Model) transcriptHeight() int {
	h := m.height - 9 // header, input, status bar
	if m.taskPanel.Active() {
		h -= 6
	}
	if m.showEvents {
		h -= m.eventPanelHeight() + 1
	}
	if h < 4 {
		h = 4
	}
	return h
}

// eventPanelHeight sizes the event log panel.
func (m Model) eventPanelHeight() int {
	h := m.height / 4
	if h < 6 {
		h = 6
	}
	return h
}

// =============================================================================
// KEYS
// =============================================================================

// handleKey dispatches keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Overlays swallow keys first.
	if m.inspecting {
		switch {
		case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Inspect):
			m.inspecting = false
			return m, nil
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		}
		return m, nil
	}
	if m.showSessions {
		switch {
		case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Sessions):
			m.showSessions = false
			return m, nil
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.cancelStream()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming {
			return m.handleStreamCancel()
		}
		m.errBox.Hide()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.ToggleReasoning):
		m.reasoningExpanded = !m.reasoningExpanded
		m.chatView.SetReasoningExpanded(m.reasoningExpanded)
		m.chatView.UpdateLastMessage()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleEvents):
		m.showEvents = !m.showEvents
		m.chatView.SetSize(m.width, m.transcriptHeight())
		return m, nil

	case key.Matches(msg, m.keyMap.Sessions):
		return m, m.listSessionsCmd()

	case key.Matches(msg, m.keyMap.Inspect):
		return m.openInspect(), nil

	case key.Matches(msg, m.keyMap.CarouselPrev):
		m.carousel.Prev()
		return m, nil

	case key.Matches(msg, m.keyMap.CarouselNext):
		m.carousel.Next()
		return m, nil

	case key.Matches(msg, m.keyMap.CarouselPause):
		m.carousel.TogglePaused()
		return m, nil
	}

	// Everything else goes to the input and the viewport.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if !m.input.Focused() {
		m.chatView, cmd = m.chatView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleSubmit routes entered text to a slash command or the gateway.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	m.input.Reset()

	if strings.HasPrefix(content, "/") {
		return m.handleCommand(content)
	}
	if m.state == StateStreaming {
		return m.showError("Busy", "A response is still streaming; press Esc to cancel it first."), nil
	}
	return m.sendMessage(content)
}

// =============================================================================
// STREAMING
// =============================================================================

// sendMessage appends the user turn and starts the completion stream.
func (m Model) sendMessage(content string) (Model, tea.Cmd) {
	m.conversation.AddUserMessage(content)
	assistant := m.conversation.AddAssistantMessage()

	m.streamMsgID = assistant.ID
	m.tokenBuf.Reset()
	m.revealer.Observe(assistant.ID, "")
	m.carousel.SetContent(assistant.ID, "")
	m.chatView.SetMessages(m.conversation.Messages)
	m.chatView.ScrollToBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel

	id := assistant.ID
	return m, tea.Batch(
		func() tea.Msg { return NewStreamStartMsg(id) },
		startStreamCmd(ctx, m.deps.Client, m.conversation.Model, m.conversation.Turns(), id, m.tokenBuf),
	)
}

// handleStreamStart flips into streaming state and begins reveal ticks.
func (m Model) handleStreamStart(msg StreamStartMsg) (Model, tea.Cmd) {
	if msg.MessageID != m.streamMsgID {
		return m, nil
	}
	m.state = StateStreaming
	m.revealing = true
	m.revealGen++
	m.statusBar.SetStatus(components.StatusStreaming)
	m.statusBar.SetRevealing(true)
	m.thinking.SetMessage("Thinking")
	return m, tea.Batch(
		m.thinking.Start(),
		revealTickCmd(m.revealer.TickInterval(), m.revealGen),
	)
}

// handleRevealTick drains streamed tokens and advances disclosure.
// Content and its segmentation always change together, within this one
// handler, so no frame can render them out of step. A tick stamped
// with a superseded generation belongs to an earlier message's loop
// and is dropped unprocessed.
func (m Model) handleRevealTick(msg RevealTickMsg) (Model, tea.Cmd) {
	if !m.revealing || msg.Generation != m.revealGen {
		return m, nil
	}

	if chunk := m.tokenBuf.Drain(); chunk != "" {
		m.conversation.AppendToLast(chunk)
		m.thinking.Stop()
	}

	if last := m.conversation.LastMessage(); last != nil && last.ID == m.streamMsgID {
		m.revealer.Observe(m.streamMsgID, last.RawContent())
	}
	m.revealer.Tick()

	visible := m.revealer.Visible()
	m.chatView.SetRevealText(visible)
	m.chatView.UpdateLastMessage()

	merged := segment.SplitMerged(visible, m.collapseReasoning)
	m.carousel.SetContent(m.streamMsgID, merged.ReasoningText)

	if m.state == StateStreaming || !m.revealer.Finished() {
		return m, revealTickCmd(m.revealer.TickInterval(), m.revealGen)
	}

	// Fully caught up: drop the reveal override so the finalized
	// message renders directly.
	m.revealing = false
	m.chatView.ClearRevealText()
	m.chatView.UpdateLastMessage()
	m.statusBar.SetRevealing(false)
	m.statusBar.SetStatus(components.StatusConnected)
	return m, nil
}

// handleStreamComplete finalizes the assistant message.
func (m Model) handleStreamComplete(msg StreamCompleteMsg) (Model, tea.Cmd) {
	if msg.MessageID != m.streamMsgID {
		return m, nil
	}

	m.state = StateReady
	m.thinking.Stop()
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}

	// Pick up any tail the reveal tick has not drained yet.
	if chunk := m.tokenBuf.Drain(); chunk != "" {
		m.conversation.AppendToLast(chunk)
	}
	m.conversation.FinalizeLast(msg.Stats)
	// Prefer the stream's assembled copy: deltas can split a combining
	// sequence, and the assembled copy is NFC-normalized so
	// segmentation and width measurement see composed forms.
	if msg.Content != "" {
		if last := m.conversation.MessageByID(msg.MessageID); last != nil {
			last.Content = msg.Content
		}
	}
	m.chatView.UpdateLastMessage()

	if msg.Stats != nil {
		m.statusBar.AddTokens(msg.Stats.PromptTokens, msg.Stats.CompletionTokens)
	}

	var cmds []tea.Cmd
	if msg.Error != nil {
		m = m.showError("Stream failed", msg.Error.Error())
		m.statusBar.SetStatus(components.StatusError)
	} else if m.deps.Store != nil {
		cmds = append(cmds, m.saveQuietCmd())
	}

	// The reveal scheduler may still be catching up; its own ticks
	// finish the disclosure.
	if m.revealer.Finished() {
		m.revealing = false
		m.chatView.ClearRevealText()
		m.chatView.UpdateLastMessage()
		m.statusBar.SetRevealing(false)
		if msg.Error == nil {
			m.statusBar.SetStatus(components.StatusConnected)
		}
	}
	return m, tea.Batch(cmds...)
}

// handleStreamCancel aborts the in-flight stream, keeping the partial
// content already revealed.
func (m Model) handleStreamCancel() (Model, tea.Cmd) {
	m.cancelStream()
	m.state = StateReady
	m.thinking.Stop()
	m.conversation.FinalizeLast(nil)
	m.chatView.UpdateLastMessage()
	m.statusNote = "stream canceled"
	return m, nil
}

// cancelStream cancels the streaming context, if any.
func (m *Model) cancelStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
}

// =============================================================================
// POLLING
// =============================================================================

// evalFetchCmd performs one eval status fetch off the UI loop.
func (m Model) evalFetchCmd(generation int) tea.Cmd {
	ctrl := m.evalPoll
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollFetchTimeout)
		defer cancel()
		cont := ctrl.Poll(ctx)
		return EvalPollDoneMsg{Generation: generation, Continue: cont}
	}
}

// runFetchCmd performs one tool-run status fetch off the UI loop.
func (m Model) runFetchCmd(generation int) tea.Cmd {
	ctrl := m.runPoll
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollFetchTimeout)
		defer cancel()
		cont := ctrl.Poll(ctx)
		return RunPollDoneMsg{Generation: generation, Continue: cont}
	}
}

// handleEvalPollDone applies one eval fetch result to the panel and
// schedules the next tick on the backoff ladder.
func (m Model) handleEvalPollDone(msg EvalPollDoneMsg) (Model, tea.Cmd) {
	if msg.Generation != m.evalGen {
		return m, nil
	}

	if err := m.evalPoll.LastErr(); err != nil {
		m.pollFailures++
		m.taskPanel.SetDetail("fetch failed: " + err.Error())
	} else {
		m.pollFailures = 0
	}

	if state, ok := m.evalPoll.Latest(); ok {
		m.taskPanel.SetStatus(state.Status)
		if state.Score > 0 {
			m.taskPanel.SetScore(state.Score)
		}
		if state.Error != "" {
			m.taskPanel.SetDetail(state.Error)
		}
		m.mirrorEvalJob(state)
		m.cacheStatus("eval:"+m.evalPoll.TaskID(), string(state.Status))
	}

	if !msg.Continue {
		m.taskPanel.SetPollState(0, m.pollFailures)
		return m, m.recordEvalHistoryCmd()
	}

	interval := m.evalPoll.CurrentInterval()
	m.evalPoll.AdvanceInterval()
	m.taskPanel.SetPollState(interval, m.pollFailures)
	return m, evalPollTickCmd(interval, msg.Generation)
}

// handleRunPollDone applies one tool-run fetch result.
func (m Model) handleRunPollDone(msg RunPollDoneMsg) (Model, tea.Cmd) {
	if msg.Generation != m.runGen {
		return m, nil
	}

	if err := m.runPoll.LastErr(); err != nil {
		m.pollFailures++
		m.taskPanel.SetDetail("fetch failed: " + err.Error())
	} else {
		m.pollFailures = 0
	}

	if state, ok := m.runPoll.Latest(); ok {
		m.taskPanel.SetStatus(state.Status)
		detail := state.Tool
		if state.Detail != "" {
			if detail != "" {
				detail += ": "
			}
			detail += state.Detail
		}
		if detail != "" {
			m.taskPanel.SetDetail(detail)
		}
		m.cacheStatus("run:"+m.runPoll.TaskID(), string(state.Status))
	}

	if !msg.Continue {
		m.taskPanel.SetPollState(0, m.pollFailures)
		return m, nil
	}

	interval := m.runPoll.CurrentInterval()
	m.runPoll.AdvanceInterval()
	m.taskPanel.SetPollState(interval, m.pollFailures)
	return m, runPollTickCmd(interval, msg.Generation)
}

// mirrorEvalJob applies the remote observation to the local job mirror,
// respecting its terminal-state transition rules.
func (m *Model) mirrorEvalJob(state gateway.EvalState) {
	if m.evalJob == nil {
		return
	}
	// A rejected transition means a late observation arrived after the
	// job finished; the mirror keeps its terminal state.
	_ = m.evalJob.SetStatus(state.Status)
	if state.Score > 0 {
		m.evalJob.SetScore(state.Score)
	}
	if state.Error != "" {
		m.evalJob.SetError(state.Error)
	}
}

// recordEvalHistoryCmd persists a terminal eval job to the history
// store.
func (m Model) recordEvalHistoryCmd() tea.Cmd {
	if m.deps.History == nil || m.evalJob == nil || !m.evalJob.Status().IsTerminal() {
		return nil
	}
	job := m.evalJob
	history := m.deps.History
	return func() tea.Msg {
		if err := history.Record(job); err != nil {
			return NewErrorMsg("History", "failed to record eval run: "+err.Error())
		}
		return nil
	}
}

// cacheStatus writes the latest task status into the shared cache.
func (m *Model) cacheStatus(key, status string) {
	if m.deps.Cache == nil {
		return
	}
	ttl := time.Duration(m.deps.Config.Cache.TTLHours) * time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = m.deps.Cache.Put(ctx, key, []byte(status), ttl)
}

// cachedStatus reads the last known status for a task key. A miss or a
// cache error both report not-found; the poll fetch is the authority.
func (m *Model) cachedStatus(key string) (evals.Status, bool) {
	if m.deps.Cache == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	val, ok, err := m.deps.Cache.Get(ctx, key)
	if err != nil || !ok || len(val) == 0 {
		return "", false
	}
	return evals.Status(val), true
}

// =============================================================================
// EVENTS
// =============================================================================

// handleEventDrain moves buffered records into the bounded log.
func (m Model) handleEventDrain() (Model, tea.Cmd) {
	for _, r := range m.eventBuf.drain() {
		m.eventLog.Append(r)
	}

	connected := m.eventStream != nil && m.eventStream.Connected()
	m.eventView.SetConnected(connected)

	if connected {
		return m, eventDrainCmd()
	}
	return m, nil
}

// =============================================================================
// MISC RESULTS
// =============================================================================

// handleModelsLoaded renders the model listing as a system message.
func (m Model) handleModelsLoaded(msg ModelsLoadedMsg) (Model, tea.Cmd) {
	if msg.Error != nil {
		return m.showErrorMsg(ErrorMsg{
			Title:   "Models",
			Message: msg.Error.Error(),
			Suggestions: []string{
				"Check the gateway is reachable: " + m.deps.Config.Gateway.BaseURL,
				"Verify PRISM_API_KEY if the gateway requires auth",
			},
		}), nil
	}

	var sb strings.Builder
	sb.WriteString("Available models:\n")
	for _, info := range msg.Models {
		sb.WriteString("  " + info.ID)
		if info.OwnedBy != "" {
			sb.WriteString("  (" + info.OwnedBy + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Switch with /model <name>")

	m.conversation.AddSystemMessage(sb.String())
	m.chatView.SetMessages(m.conversation.Messages)
	return m, nil
}

// handleConversationLoaded swaps in a loaded conversation.
func (m Model) handleConversationLoaded(msg ConversationLoadedMsg) (Model, tea.Cmd) {
	if msg.Error != nil {
		return m.showError("Load failed", msg.Error.Error()), nil
	}
	m.conversation = msg.Conversation
	if m.conversation.Model == "" {
		m.conversation.Model = m.deps.Config.DefaultModel
	}
	m.header.SetModel(m.conversation.Model)
	m.statusBar.SetModel(m.conversation.Model)
	m.chatView.SetMessages(m.conversation.Messages)
	m.chatView.ScrollToBottom()
	m.showSessions = false
	return m, nil
}

// openInspect renders the last assistant answer through the markdown
// renderer in a full-width overlay.
func (m Model) openInspect() Model {
	last := m.conversation.LastAssistantMessage()
	if last == nil {
		return m.showError("Inspect", "No assistant answer to inspect yet.")
	}
	visible := last.Merged(m.collapseReasoning).VisibleText
	m.inspectText = m.markdown.Render(visible)
	m.inspecting = true
	return m
}

// showError raises the error box.
func (m Model) showError(title, message string) Model {
	return m.showErrorMsg(NewErrorMsg(title, message))
}

// showErrorMsg raises the error box from a message.
func (m Model) showErrorMsg(msg ErrorMsg) Model {
	m.errBox = components.NewErrorWithSuggestions(msg.Title, msg.Message, msg.Suggestions)
	m.errBox.SetWidth(m.width)
	m.errBox.Show()
	return m
}
