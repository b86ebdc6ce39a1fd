// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for the Prism TUI.
//
// This package handles saving and loading conversations to/from disk,
// with support for search, listing, and export.
//
// # Key Types
//
//   - ConversationStore: one JSON file per conversation
//   - ConversationMeta: lightweight metadata for listing
//
// # Usage
//
// Create a store and save a conversation:
//
//	store, err := storage.NewConversationStore()
//	id, err := store.Save(conversation)
//
// List and load conversations:
//
//	metas, err := store.List()
//	conv, err := store.Load(metas[0].ID)
//
// Search conversations:
//
//	results, err := store.Search("query text")
//
// # Storage Location
//
// Conversations are stored in ~/.prism/conversations/ as JSON files.
// Raw content is persisted verbatim, reasoning markers included.
package storage
