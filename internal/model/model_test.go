// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hello")

	if msg.ID == "" {
		t.Error("message ID should not be empty")
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want user", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want hello", msg.Content)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestStreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage("prism-large")

	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}

	msg.AppendToken("Hello")
	msg.AppendToken(" world")
	if msg.RawContent() != "Hello world" {
		t.Errorf("RawContent = %q during streaming", msg.RawContent())
	}

	stats := NewStatistics()
	stats.Finalize(2)
	msg.FinalizeStream(stats)

	if msg.IsStreaming {
		t.Error("message should not be streaming after finalize")
	}
	if msg.Content != "Hello world" {
		t.Errorf("Content = %q after finalize", msg.Content)
	}
	if msg.TokenCount != 2 {
		t.Errorf("TokenCount = %d, want 2", msg.TokenCount)
	}
}

func TestMessageMergedHidesReasoning(t *testing.T) {
	msg := NewAssistantMessage("prism-large")
	msg.AppendToken("Answer <think>hidden deliberation")

	merged := msg.Merged(true)
	if merged.VisibleText != "Answer " {
		t.Errorf("VisibleText = %q, want %q", merged.VisibleText, "Answer ")
	}
	if merged.ReasoningText != "hidden deliberation" {
		t.Errorf("ReasoningText = %q", merged.ReasoningText)
	}
	if !msg.HasReasoning() {
		t.Error("HasReasoning should be true")
	}
}

func TestMessagePreviewStripsReasoning(t *testing.T) {
	msg := NewMessage(RoleAssistant, "Short answer.<think>very long hidden reasoning</think>")

	if got := msg.Preview(40); got != "Short answer." {
		t.Errorf("Preview = %q, want %q", got, "Short answer.")
	}
}

func TestConversationFlow(t *testing.T) {
	conv := NewConversation("prism-large")

	conv.AddUserMessage("question")
	asst := conv.AddAssistantMessage()
	conv.AppendToLast("answer")
	conv.FinalizeLast(nil)

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if conv.LastAssistantMessage() != asst {
		t.Error("LastAssistantMessage mismatch")
	}
	if asst.Content != "answer" {
		t.Errorf("assistant content = %q", asst.Content)
	}
	if conv.Title != "question" {
		t.Errorf("Title = %q, want question", conv.Title)
	}
}

func TestConversationTurnsStripReasoning(t *testing.T) {
	conv := NewConversation("prism-large")
	conv.SystemPrompt = "be terse"
	conv.AddUserMessage("hi")

	asst := conv.AddAssistantMessage()
	asst.AppendToken("<think>secret</think>visible reply")
	conv.FinalizeLast(nil)

	turns := conv.Turns()
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	if turns[0].Role != "system" || turns[0].Content != "be terse" {
		t.Errorf("unexpected system turn: %+v", turns[0])
	}
	if turns[2].Role != "assistant" || turns[2].Content != "visible reply" {
		t.Errorf("assistant turn leaked reasoning: %+v", turns[2])
	}
}

func TestConversationRemoveAndClear(t *testing.T) {
	conv := NewConversation("prism-large")
	msg := conv.AddUserMessage("to be removed")

	if !conv.RemoveMessage(msg.ID) {
		t.Error("RemoveMessage should report success")
	}
	if conv.RemoveMessage("missing-id") {
		t.Error("RemoveMessage should fail for unknown id")
	}

	conv.AddUserMessage("x")
	conv.ClearHistory()
	if !conv.IsEmpty() {
		t.Error("conversation should be empty after ClearHistory")
	}
	if conv.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d after clear", conv.TokensUsed)
	}
}

func TestConversationPrune(t *testing.T) {
	conv := NewConversation("prism-large")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("m")
	}
	if conv.MessageCount() != MaxMessages {
		t.Errorf("MessageCount = %d, want %d", conv.MessageCount(), MaxMessages)
	}
}
