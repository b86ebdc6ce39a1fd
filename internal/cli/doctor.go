// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Health checks for the prism CLI.
//
// "prism doctor" verifies the pieces the TUI relies on: config file,
// gateway reachability, credentials, conversation storage, and the
// eval history database.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/prism-tui/internal/config"
	"github.com/jeranaias/prism-tui/internal/evals"
	"github.com/jeranaias/prism-tui/internal/gateway"
	"github.com/jeranaias/prism-tui/internal/storage"
)

// checkResult is one doctor line item.
type checkResult struct {
	name   string
	ok     bool
	detail string
}

// HandleDoctorCommand runs all health checks and prints a report. It
// returns an error when any check fails so scripts can gate on the
// exit code.
func HandleDoctorCommand(args Args) error {
	cfg := config.Global()

	checks := []checkResult{
		checkConfig(),
		checkGateway(cfg, args),
		checkStorage(),
		checkHistory(),
	}

	failed := 0
	for _, c := range checks {
		icon := summaryValueStyle.Render("[OK]")
		if !c.ok {
			icon = errorStyle.Render("[X] ")
			failed++
		}
		fmt.Printf("%s %-22s %s\n", icon, c.name, c.detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	if !args.Quiet {
		fmt.Println("\nAll checks passed.")
	}
	return nil
}

func checkConfig() checkResult {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return checkResult{"config", false, err.Error()}
	}
	cfg, err := config.Load()
	if err != nil {
		return checkResult{"config", false, fmt.Sprintf("%s: %v", path, err)}
	}
	if err := cfg.Validate(); err != nil {
		return checkResult{"config", false, err.Error()}
	}
	return checkResult{"config", true, path}
}

func checkGateway(cfg *config.Config, args Args) checkResult {
	client := newGatewayClient(cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		return checkResult{"gateway", false,
			client.BaseURL() + " reachable but rejected credentials (set PRISM_API_KEY)"}
	case err != nil:
		return checkResult{"gateway", false,
			fmt.Sprintf("%s unreachable: %v", client.BaseURL(), err)}
	default:
		return checkResult{"gateway", true,
			fmt.Sprintf("%s (%d models)", client.BaseURL(), len(models))}
	}
}

func checkStorage() checkResult {
	store, err := storage.NewConversationStore()
	if err != nil {
		return checkResult{"conversation store", false, err.Error()}
	}
	metas, err := store.List()
	if err != nil {
		return checkResult{"conversation store", false, err.Error()}
	}
	return checkResult{"conversation store", true,
		fmt.Sprintf("%s (%d saved)", store.BaseDir, len(metas))}
}

func checkHistory() checkResult {
	history, err := evals.OpenHistory("")
	if err != nil {
		return checkResult{"eval history", false, err.Error()}
	}
	defer history.Close()

	records, err := history.Recent(1)
	if err != nil {
		return checkResult{"eval history", false, err.Error()}
	}
	detail := "empty"
	if len(records) > 0 {
		detail = "last run " + records[0].UpdatedAt.Format("Jan 2 15:04")
	}
	return checkResult{"eval history", true, detail}
}
