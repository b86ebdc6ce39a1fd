// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Model listing handler for the prism CLI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/prism-tui/internal/config"
)

// HandleModelsCommand lists the models the gateway serves.
func HandleModelsCommand(args Args) error {
	cfg := config.Global()
	client := newGatewayClient(cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), statusFetchTimeout)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models from %s: %w", client.BaseURL(), err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	}

	if len(models) == 0 {
		fmt.Println("The gateway reports no models.")
		return nil
	}

	for _, info := range models {
		marker := "  "
		if info.ID == cfg.DefaultModel {
			marker = infoStyle.Render("* ")
		}
		line := marker + info.ID
		if info.OwnedBy != "" {
			line += "  " + summaryLabelStyle.Render("("+info.OwnedBy+")")
		}
		fmt.Println(line)
	}

	if !args.Quiet {
		fmt.Printf("\n%d models, * = default\n", len(models))
	}
	return nil
}
