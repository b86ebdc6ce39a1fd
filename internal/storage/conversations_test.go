// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/prism-tui/internal/model"
)

// =============================================================================
// CONVERSATION STORE TESTS
// =============================================================================

func TestNewConversationStoreWithDir(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewConversationStoreWithDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if store.BaseDir != tempDir {
		t.Errorf("BaseDir = %q, want %q", store.BaseDir, tempDir)
	}
	if store.MaxConversations != 100 {
		t.Errorf("MaxConversations = %d, want 100", store.MaxConversations)
	}
}

func TestConversationStore_SaveAndLoad(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv := model.NewConversation("openai/gpt-4o-mini")
	conv.AddUserMessage("Hello")
	msg := conv.AddAssistantMessage()
	msg.Content = "Hi there!"

	id, err := store.Save(conv)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(id, "conv_") {
		t.Errorf("ID should start with 'conv_', got %q", id)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("Loaded ID = %q, want %q", loaded.ID, id)
	}
	if loaded.Model != "openai/gpt-4o-mini" {
		t.Errorf("Loaded Model = %q", loaded.Model)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("Loaded Messages count = %d, want 2", len(loaded.Messages))
	}
}

func TestConversationStore_RoundTripKeepsReasoningMarkers(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	raw := "<think>chain of thought</think>The answer is 4."
	conv := model.NewConversation("test-model")
	msg := conv.AddAssistantMessage()
	msg.Content = raw

	id, err := store.Save(conv)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	got := loaded.Messages[0].Content
	if got != raw {
		t.Errorf("round trip changed content: %q", got)
	}

	merged := loaded.Messages[0].Merged(true)
	if merged.VisibleText != "The answer is 4." {
		t.Errorf("VisibleText = %q", merged.VisibleText)
	}
	if merged.ReasoningText != "chain of thought" {
		t.Errorf("ReasoningText = %q", merged.ReasoningText)
	}
}

func TestConversationStore_LoadNotFound(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Load("conv_missing")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestConversationStore_ListOrdering(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := model.NewConversation("m")
	first.AddUserMessage("oldest question")
	if _, err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second := model.NewConversation("m")
	second.AddUserMessage("newest question")
	if _, err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("List returned %d metas, want 2", len(metas))
	}
	if metas[0].ID != second.ID {
		t.Errorf("most recent conversation should list first, got %q", metas[0].ID)
	}
	if metas[0].Preview != "newest question" {
		t.Errorf("Preview = %q", metas[0].Preview)
	}
}

func TestConversationStore_Delete(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	conv := model.NewConversation("m")
	id, err := store.Save(conv)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrConversationNotFound) {
		t.Error("conversation should be gone after delete")
	}
	if err := store.Delete(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("second delete = %v, want ErrConversationNotFound", err)
	}
}

func TestConversationStore_EnforceLimit(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store.MaxConversations = 2

	var ids []string
	for i := 0; i < 3; i++ {
		conv := model.NewConversation("m")
		id, err := store.Save(conv)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("List returned %d metas after limit, want 2", len(metas))
	}
	for _, meta := range metas {
		if meta.ID == ids[0] {
			t.Error("oldest conversation should have been evicted")
		}
	}
}

func TestConversationStore_SearchMessages(t *testing.T) {
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	conv := model.NewConversation("m")
	conv.AddUserMessage("how do goroutines work")
	if _, err := store.Save(conv); err != nil {
		t.Fatal(err)
	}

	other := model.NewConversation("m")
	other.AddUserMessage("terraform modules")
	if _, err := store.Save(other); err != nil {
		t.Fatal(err)
	}

	results, err := store.SearchMessages("GOROUTINES")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != conv.ID {
		t.Errorf("SearchMessages = %+v", results)
	}
}

