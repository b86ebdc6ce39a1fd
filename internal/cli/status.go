// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - One-shot task status handlers for the prism CLI.
//
// "prism eval <id>" and "prism run <id>" fetch the current state once
// and print it; the TUI's task panel does the ladder polling. "prism
// history" lists finished eval jobs from the local database.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/gateway"
)

const statusFetchTimeout = 15 * time.Second

// HandleEvalCommand prints the current status of one eval job.
func HandleEvalCommand(args Args) error {
	if args.TaskID == "" {
		return fmt.Errorf("no job id provided. Usage: prism eval <job-id>")
	}

	client := newGatewayClient(config.Global(), args)
	ctx, cancel := context.WithTimeout(context.Background(), statusFetchTimeout)
	defer cancel()

	state, err := client.EvalStatus(ctx, args.TaskID)
	if err != nil {
		return describeGatewayError("eval job", args.TaskID, err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Printf("%s %s\n", summaryLabelStyle.Render("Job:"), args.TaskID)
	fmt.Printf("%s %s\n", summaryLabelStyle.Render("Status:"), state.Status)
	if state.Score > 0 {
		fmt.Printf("%s %.2f\n", summaryLabelStyle.Render("Score:"), state.Score)
	}
	if state.Error != "" {
		fmt.Printf("%s %s\n", summaryLabelStyle.Render("Error:"), state.Error)
	}
	if !state.Status.IsTerminal() {
		fmt.Println(summaryLabelStyle.Render("Still running; attach with /eval in the TUI to watch it."))
	}
	return nil
}

// HandleRunCommand prints the current status of one tool run.
func HandleRunCommand(args Args) error {
	if args.TaskID == "" {
		return fmt.Errorf("no run id provided. Usage: prism run <run-id>")
	}

	client := newGatewayClient(config.Global(), args)
	ctx, cancel := context.WithTimeout(context.Background(), statusFetchTimeout)
	defer cancel()

	state, err := client.RunStatus(ctx, args.TaskID)
	if err != nil {
		return describeGatewayError("run", args.TaskID, err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Printf("%s %s\n", summaryLabelStyle.Render("Run:"), args.TaskID)
	fmt.Printf("%s %s\n", summaryLabelStyle.Render("Status:"), state.Status)
	if state.Tool != "" {
		fmt.Printf("%s %s\n", summaryLabelStyle.Render("Tool:"), state.Tool)
	}
	if state.Detail != "" {
		fmt.Printf("%s %s\n", summaryLabelStyle.Render("Detail:"), state.Detail)
	}
	return nil
}

// HandleHistoryCommand lists recent eval jobs from the local history
// database.
func HandleHistoryCommand(args Args) error {
	history, err := evals.OpenHistory("")
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer history.Close()

	records, err := history.Recent(20)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No eval jobs recorded yet.")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("%s  %-10s  %s", rec.ID, rec.Status, rec.Model)
		if rec.Score > 0 {
			line += fmt.Sprintf("  score %.2f", rec.Score)
		}
		line += "  " + rec.UpdatedAt.Format("Jan 2 15:04")
		fmt.Println(line)
	}
	return nil
}

// describeGatewayError turns the client's sentinel errors into
// actionable messages.
func describeGatewayError(kind, id string, err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return fmt.Errorf("%s %s not found on the gateway", kind, id)
	case errors.Is(err, gateway.ErrUnauthorized):
		return fmt.Errorf("gateway rejected credentials; set PRISM_API_KEY or gateway.api_key in config")
	default:
		return fmt.Errorf("failed to fetch %s status: %w", kind, err)
	}
}
