// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/prism-tui/internal/cache"
	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/events"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/model"
	"github.com/jeranaias/prism-tui/internal/poll"
)

func TestUnknownCommandRaisesError(t *testing.T) {
	m := newTestModel(t)

	m2, cmd := m.handleCommand("/bogus")
	if cmd != nil {
		t.Error("unknown command produced a command")
	}
	if !m2.errBox.IsVisible() {
		t.Fatal("unknown command did not raise the error box")
	}
	if !strings.Contains(m2.errBox.View(), "/bogus") {
		t.Errorf("error box missing command name: %q", m2.errBox.View())
	}
}

func TestHelpCommandAddsSystemMessage(t *testing.T) {
	m := newTestModel(t)
	before := len(m.conversation.Messages)

	m2, _ := m.handleCommand("/help")
	if len(m2.conversation.Messages) != before+1 {
		t.Fatalf("message count = %d, want %d", len(m2.conversation.Messages), before+1)
	}
	last := m2.conversation.LastMessage()
	if last.Role != model.RoleSystem {
		t.Errorf("help message role = %q, want system", last.Role)
	}
	if !strings.Contains(last.RawContent(), "/eval") {
		t.Error("help text missing /eval entry")
	}
}

func TestModelCommandSwitches(t *testing.T) {
	m := newTestModel(t)

	m2, _ := m.handleCommand("/model anthropic/claude-sonnet-4")
	if m2.conversation.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("conversation model = %q", m2.conversation.Model)
	}

	m3, _ := m.handleCommand("/model")
	if !m3.errBox.IsVisible() {
		t.Error("bare /model did not raise a usage error")
	}
}

func TestAttachEvalActivatesSession(t *testing.T) {
	m := newTestModel(t)

	m2, cmd := m.handleCommand("/eval eval_9f2")
	if cmd == nil {
		t.Fatal("attach produced no immediate fetch command")
	}
	if m2.evalPoll.State() != poll.StateActive {
		t.Error("eval controller not active")
	}
	if m2.evalGen != m2.evalPoll.Generation() {
		t.Errorf("stored generation %d != controller generation %d",
			m2.evalGen, m2.evalPoll.Generation())
	}
	if !m2.taskPanel.Active() {
		t.Error("task panel not tracking")
	}
	if m2.evalJob == nil || m2.evalJob.ID != "eval_9f2" {
		t.Errorf("job mirror = %+v, want ID eval_9f2", m2.evalJob)
	}
	if m2.activeTask != taskEval {
		t.Errorf("activeTask = %v, want taskEval", m2.activeTask)
	}
}

func TestAttachEvalSeedsPanelFromCache(t *testing.T) {
	m := newTestModel(t)
	m.deps.Cache = cache.NewMemoryStore()

	err := m.deps.Cache.Put(context.Background(), "eval:eval_9f2", []byte("running"), 0)
	if err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	m2, _ := m.handleCommand("/eval eval_9f2")
	if m2.taskPanel.Status() != evals.StatusRunning {
		t.Errorf("panel status = %q, want running from cache", m2.taskPanel.Status())
	}
}

func TestAttachRunSeedsPanelFromCache(t *testing.T) {
	m := newTestModel(t)
	m.deps.Client = gateway.NewClient(gateway.Config{})
	m.deps.Cache = cache.NewMemoryStore()

	err := m.deps.Cache.Put(context.Background(), "run:run_42", []byte("running"), 0)
	if err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	m2, _ := m.handleCommand("/run run_42")
	if m2.taskPanel.Status() != evals.StatusRunning {
		t.Errorf("panel status = %q, want running from cache", m2.taskPanel.Status())
	}
}

func TestAttachEvalColdCacheLeavesPanelUnseeded(t *testing.T) {
	m := newTestModel(t)
	m.deps.Cache = cache.NewMemoryStore()

	m2, _ := m.handleCommand("/eval eval_cold")
	if m2.taskPanel.Status() != evals.StatusQueued {
		t.Errorf("panel status = %q, want queued until first fetch", m2.taskPanel.Status())
	}
}

func TestAttachEvalSupersedesPreviousSession(t *testing.T) {
	m := newTestModel(t)

	m2, _ := m.handleCommand("/eval eval_one")
	firstGen := m2.evalGen

	m3, _ := m2.handleCommand("/eval eval_two")
	if m3.evalGen == firstGen {
		t.Error("re-attach did not bump the generation")
	}

	// A late tick from the first session is now stale.
	_, cmd := m3.Update(EvalPollTickMsg{Generation: firstGen})
	if cmd != nil {
		t.Error("tick from superseded session produced a command")
	}
}

func TestFilterCommandNarrowsLog(t *testing.T) {
	m := newTestModel(t)

	for _, agent := range []string{"agent-1", "agent-2", "agent-1"} {
		m.eventLog.Append(events.Record{
			TS:      time.Now(),
			Type:    events.TypeChunk,
			AgentID: agent,
			Text:    "work",
		})
	}

	m2, _ := m.handleCommand("/filter agent-1")
	if got := len(m2.eventLog.Visible()); got != 2 {
		t.Errorf("visible records = %d, want 2", got)
	}

	m3, _ := m2.handleCommand("/filter")
	if got := len(m3.eventLog.Visible()); got != 3 {
		t.Errorf("visible records after clearing filter = %d, want 3", got)
	}
}

func TestRevealCommandTogglesScheduler(t *testing.T) {
	m := newTestModel(t)

	m2, _ := m.handleCommand("/reveal off")
	if !strings.Contains(m2.statusNote, "off") {
		t.Errorf("statusNote = %q, want off notice", m2.statusNote)
	}

	// Disabled scheduler shows everything without pacing.
	m2.revealer.Observe("msg_x", "instant text")
	if got := m2.revealer.Visible(); got != "instant text" {
		t.Errorf("Visible with reveal off = %q, want full text", got)
	}
}

func TestNewCommandResetsConversation(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserMessage("hello")
	keepModel := m.conversation.Model

	m2, _ := m.handleCommand("/new")
	if !m2.conversation.IsEmpty() {
		t.Error("new conversation not empty")
	}
	if m2.conversation.Model != keepModel {
		t.Errorf("model = %q, want %q", m2.conversation.Model, keepModel)
	}
}
