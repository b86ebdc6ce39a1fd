// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for prism.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdModels
	CmdEval
	CmdRun
	CmdHistory
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string
	Gateway string

	// Command-specific
	Query  string
	File   string
	TaskID string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `prism - conversational front-end for the Prism gateway

Prism talks to a multi-model LLM gateway: OpenAI-compatible chat
completions, Anthropic models, eval jobs, and live agent runs.

Usage:
  prism                         Launch the TUI (default)
  prism ask "question"          One-shot question, streamed to stdout
  prism chat                    Interactive REPL without the TUI
  prism models                  List models the gateway serves
  prism eval <job-id>           Print an eval job's current status
  prism run <run-id>            Print a tool run's current status
  prism history                 Show recent eval jobs
  prism doctor                  Check gateway and local state
  prism version                 Show version information

Flags:
  -m, --model NAME    Use a specific model (overrides config)
  -f, --file FILE     Include file contents with the question (ask)
  --gateway URL       Gateway base URL (overrides config)
  --json              Machine-readable output
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output

Examples:
  prism ask "Summarize RFC 9110 in three sentences"
  cat main.go | prism ask "Review this code"
  prism ask -m anthropic/claude-sonnet-4 "Explain monads"
  prism eval eval_7f3a91 --json
  prism models --gateway http://localhost:8090

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("prism version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "models":
		return CmdModels, args

	case "eval", "evals":
		if len(remaining) > 0 {
			args.TaskID = remaining[0]
		}
		return CmdEval, args

	case "run", "runs":
		if len(remaining) > 0 {
			args.TaskID = remaining[0]
		}
		return CmdRun, args

	case "history":
		return CmdHistory, args

	case "doctor":
		return CmdDoctor, args

	case "version", "-V", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// An unrecognized first word is treated as an ask query, so
		// `prism "what is X"` works without the subcommand.
		parseAskArgs(&args, append([]string{cmd}, remaining...))
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts flags that apply to every command and
// returns the remaining arguments.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	i := 0
	for i < len(argv) {
		switch argv[i] {
		case "-q", "--quiet":
			args.Quiet = true
			i++
		case "-v", "--verbose":
			args.Verbose = true
			i++
		case "--json":
			args.JSON = true
			i++
		case "-m", "--model":
			if i+1 < len(argv) {
				args.Model = argv[i+1]
				i += 2
			} else {
				i++
			}
		case "--gateway":
			if i+1 < len(argv) {
				args.Gateway = argv[i+1]
				i += 2
			} else {
				i++
			}
		default:
			remaining = append(remaining, argv[i])
			i++
		}
	}

	return remaining, args
}

// parseAskArgs collects ask flags and joins the rest into the query.
func parseAskArgs(args *Args, remaining []string) {
	var queryParts []string

	i := 0
	for i < len(remaining) {
		switch remaining[i] {
		case "-f", "--file":
			if i+1 < len(remaining) {
				args.File = remaining[i+1]
				i += 2
			} else {
				i++
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				args.Model = remaining[i+1]
				i += 2
			} else {
				i++
			}
		default:
			queryParts = append(queryParts, remaining[i])
			i++
		}
	}

	args.Query = strings.Join(queryParts, " ")
}

// parseChatArgs collects chat flags.
func parseChatArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		switch remaining[i] {
		case "-m", "--model":
			if i+1 < len(remaining) {
				args.Model = remaining[i+1]
				i += 2
			} else {
				i++
			}
		default:
			i++
		}
	}
}
