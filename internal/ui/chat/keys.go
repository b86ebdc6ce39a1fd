// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main conversational view of the Prism TUI.
//
// This file defines the keyboard bindings for the chat interface.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the chat interface.
type KeyMap struct {
	Submit          key.Binding
	Cancel          key.Binding
	Quit            key.Binding
	ToggleReasoning key.Binding
	ToggleEvents    key.Binding
	Sessions        key.Binding
	Inspect         key.Binding
	CarouselPrev    key.Binding
	CarouselNext    key.Binding
	CarouselPause   key.Binding
	Help            key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send message"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel stream / close overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		ToggleReasoning: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "expand/collapse reasoning"),
		),
		ToggleEvents: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "toggle event log"),
		),
		Sessions: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "list sessions"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "inspect last answer"),
		),
		CarouselPrev: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("C-left", "previous reasoning frame"),
		),
		CarouselNext: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("C-right", "next reasoning frame"),
		),
		CarouselPause: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "pause/resume preview"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("C-/", "help"),
		),
	}
}

// ShortHelp returns the bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.ToggleReasoning, k.Quit}
}

// FullHelp returns the bindings grouped for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Quit},
		{k.ToggleReasoning, k.ToggleEvents, k.Sessions, k.Inspect},
		{k.CarouselPrev, k.CarouselNext, k.CarouselPause},
	}
}
