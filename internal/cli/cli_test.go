// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseArgsDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("no args parsed to %v, want CmdTUI", cmd)
	}
}

func TestParseArgsAskJoinsQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "what", "is", "a", "monad"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is a monad" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsBareQueryFallsBackToAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"explain", "generics"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "explain generics" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want func(Args) bool
	}{
		{"quiet short", []string{"-q", "models"}, func(a Args) bool { return a.Quiet }},
		{"json", []string{"--json", "models"}, func(a Args) bool { return a.JSON }},
		{"verbose", []string{"-v", "models"}, func(a Args) bool { return a.Verbose }},
		{"model", []string{"--model", "openai/gpt-4o", "chat"}, func(a Args) bool { return a.Model == "openai/gpt-4o" }},
		{"gateway", []string{"--gateway", "http://host:9000", "models"}, func(a Args) bool { return a.Gateway == "http://host:9000" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := ParseArgs(tt.argv)
			if !tt.want(args) {
				t.Errorf("flag not parsed from %v: %+v", tt.argv, args)
			}
		})
	}
}

func TestParseArgsAskFileFlag(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "review", "this:", "--file", "main.go"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.File != "main.go" {
		t.Errorf("File = %q", args.File)
	}
	if args.Query != "review this:" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsTaskCommands(t *testing.T) {
	cmd, args := ParseArgs([]string{"eval", "eval_7f3a91"})
	if cmd != CmdEval {
		t.Fatalf("cmd = %v, want CmdEval", cmd)
	}
	if args.TaskID != "eval_7f3a91" {
		t.Errorf("TaskID = %q", args.TaskID)
	}

	cmd, args = ParseArgs([]string{"run", "run_42"})
	if cmd != CmdRun {
		t.Fatalf("cmd = %v, want CmdRun", cmd)
	}
	if args.TaskID != "run_42" {
		t.Errorf("TaskID = %q", args.TaskID)
	}
}

func TestParseArgsSubcommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"tui"}, CmdTUI},
		{[]string{"chat"}, CmdChat},
		{[]string{"models"}, CmdModels},
		{[]string{"history"}, CmdHistory},
		{[]string{"doctor"}, CmdDoctor},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.argv)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}
