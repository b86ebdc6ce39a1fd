// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Deps{Config: config.Default()}, styles.NewTheme())
	m = m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestStaleEvalTickDropped(t *testing.T) {
	m := newTestModel(t)

	gen := m.evalPoll.Activate("eval_abc")
	m.evalGen = gen

	// A tick stamped with a superseded generation produces no fetch.
	_, cmd := m.Update(EvalPollTickMsg{Generation: gen - 1})
	if cmd != nil {
		t.Error("stale tick produced a command, want nil")
	}

	_, cmd = m.Update(EvalPollTickMsg{Generation: gen})
	if cmd == nil {
		t.Error("current tick produced no command")
	}
}

func TestTickAfterStopDropped(t *testing.T) {
	m := newTestModel(t)

	gen := m.evalPoll.Activate("eval_abc")
	m.evalGen = gen
	m.evalPoll.Stop()

	_, cmd := m.Update(EvalPollTickMsg{Generation: gen})
	if cmd != nil {
		t.Error("tick after Stop produced a command, want nil")
	}
}

func TestStalePollResultDropped(t *testing.T) {
	m := newTestModel(t)
	m.evalGen = 3

	m2, cmd := m.Update(EvalPollDoneMsg{Generation: 2, Continue: true})
	if cmd != nil {
		t.Error("stale poll result scheduled a tick, want nil")
	}
	if m2.taskPanel.Active() {
		t.Error("stale poll result touched the task panel")
	}
}

func TestCarouselTickSuspendedWhileExpanded(t *testing.T) {
	m := newTestModel(t)
	m.carousel.SetContent("msg_1", "First idea.\n\nSecond idea.\n\nThird idea.")

	m.reasoningExpanded = true
	m2, cmd := m.Update(CarouselTickMsg{})
	if m2.carousel.Index() != 0 {
		t.Errorf("index advanced while expanded: %d", m2.carousel.Index())
	}
	// The timer keeps running so rotation resumes on collapse.
	if cmd == nil {
		t.Error("suspended tick did not reschedule")
	}

	m2.reasoningExpanded = false
	m3, _ := m2.Update(CarouselTickMsg{})
	if m3.carousel.Index() != 1 {
		t.Errorf("index = %d after collapsed tick, want 1", m3.carousel.Index())
	}
}

func TestRevealTickDisclosesBufferedTokens(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.sendMessage("hi")
	m, _ = m.handleStreamStart(NewStreamStartMsg(m.streamMsgID))

	m.tokenBuf.Write("hello out there")
	m, cmd := m.handleRevealTick(RevealTickMsg{Generation: m.revealGen})

	last := m.conversation.LastMessage()
	if last == nil || last.RawContent() != "hello out there" {
		t.Fatalf("buffered tokens not appended, got %v", last)
	}
	if m.revealer.DisplayedLength() == 0 {
		t.Error("reveal scheduler disclosed nothing")
	}
	if m.revealer.DisplayedLength() >= len("hello out there") {
		t.Error("first tick disclosed everything, want paced disclosure")
	}
	if cmd == nil {
		t.Error("mid-stream reveal tick did not reschedule")
	}
}

func TestRevealTickFromSupersededLoopDropped(t *testing.T) {
	m := newTestModel(t)

	// First answer outlives its stream: completion lands while the
	// reveal loop is still catching up.
	m, _ = m.sendMessage("first question")
	m, _ = m.handleStreamStart(NewStreamStartMsg(m.streamMsgID))
	m.tokenBuf.Write("a long first answer that outlives its own stream")
	m, _ = m.handleRevealTick(RevealTickMsg{Generation: m.revealGen})
	m, _ = m.handleStreamComplete(StreamCompleteMsg{MessageID: m.streamMsgID})
	if !m.revealing {
		t.Fatal("reveal should still be catching up after completion")
	}
	oldGen := m.revealGen

	m, _ = m.sendMessage("second question")
	m, _ = m.handleStreamStart(NewStreamStartMsg(m.streamMsgID))
	m.tokenBuf.Write("second answer")
	m, _ = m.handleRevealTick(RevealTickMsg{Generation: m.revealGen})
	disclosed := m.revealer.DisplayedLength()

	// A tick from the first message's loop must neither advance
	// disclosure nor keep its loop alive.
	m2, cmd := m.handleRevealTick(RevealTickMsg{Generation: oldGen})
	if cmd != nil {
		t.Error("superseded reveal tick rescheduled, want nil")
	}
	if m2.revealer.DisplayedLength() != disclosed {
		t.Errorf("superseded tick advanced disclosure: %d -> %d",
			disclosed, m2.revealer.DisplayedLength())
	}

	// The current loop keeps ticking at its own pace.
	m3, cmd := m2.handleRevealTick(RevealTickMsg{Generation: m2.revealGen})
	if cmd == nil {
		t.Error("current reveal tick did not reschedule")
	}
	if m3.revealer.DisplayedLength() <= disclosed {
		t.Error("current tick did not advance disclosure")
	}
}

func TestStreamCompleteAppliesAssembledContent(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.sendMessage("hi")
	m, _ = m.handleStreamStart(NewStreamStartMsg(m.streamMsgID))

	// Deltas may carry a decomposed combining sequence; the assembled
	// copy from the stream is composed.
	m.tokenBuf.Write("café")
	m, _ = m.handleRevealTick(RevealTickMsg{Generation: m.revealGen})

	m, _ = m.handleStreamComplete(StreamCompleteMsg{
		MessageID: m.streamMsgID,
		Content:   "café",
	})

	last := m.conversation.LastMessage()
	if last.RawContent() != "café" {
		t.Errorf("content = %q, want composed form %q", last.RawContent(), "café")
	}
	if last.IsStreaming {
		t.Error("message still marked streaming after completion")
	}
}

func TestStreamCompleteStaleMessageIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.sendMessage("hi")

	m2, _ := m.Update(StreamCompleteMsg{MessageID: "msg_other", Content: "x"})
	if m2.state != m.state {
		t.Error("stale completion changed stream state")
	}
}

func TestSubmitWhileStreamingRaisesError(t *testing.T) {
	m := newTestModel(t)
	m.state = StateStreaming
	m.input.SetValue("another question")

	m2, _ := m.handleSubmit()
	if !m2.errBox.IsVisible() {
		t.Error("submit during stream did not raise the busy error")
	}
	view := m2.errBox.View()
	if !strings.Contains(view, "Busy") {
		t.Errorf("error box missing title, got %q", view)
	}
}

func TestResizeKeepsMinimumTranscript(t *testing.T) {
	m := newTestModel(t)
	m = m.handleResize(tea.WindowSizeMsg{Width: 40, Height: 10})

	if h := m.transcriptHeight(); h < 4 {
		t.Errorf("transcriptHeight = %d, want >= 4", h)
	}
}
