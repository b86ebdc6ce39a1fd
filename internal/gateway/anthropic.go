// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jeranaias/prism-tui/internal/model"
)

// anthropicMaxTokens caps passthrough completions. The gateway enforces
// its own per-key ceiling; this is the client-side request value.
const anthropicMaxTokens = 8192

// streamAnthropic drives the Anthropic passthrough streaming path. The
// "anthropic/" routing prefix is stripped before the request.
func (c *Client) streamAnthropic(ctx context.Context, modelName string, turns []model.Turn, onToken TokenHandler, stats *model.Statistics) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(strings.TrimPrefix(modelName, "anthropic/")),
		MaxTokens: anthropicMaxTokens,
	}
	params.Messages, params.System = toAnthropicMessages(turns)

	stream := c.anthropic.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	var outputTokens int
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
				stats.RecordFirstToken()
				sb.WriteString(delta.Text)
				if onToken != nil {
					onToken(delta.Text)
				}
			}
		case anthropic.MessageDeltaEvent:
			outputTokens = int(ev.Usage.OutputTokens)
		case anthropic.MessageStartEvent:
			stats.PromptTokens = int(ev.Message.Usage.InputTokens)
		}
	}
	if err := stream.Err(); err != nil {
		return sb.String(), fmt.Errorf("stream failed: %w", err)
	}

	if outputTokens > 0 {
		stats.Finalize(outputTokens)
	}
	return sb.String(), nil
}

// toAnthropicMessages converts turns to the Anthropic request shape.
// The protocol carries system prompts out of band, so system turns are
// collected separately.
func toAnthropicMessages(turns []model.Turn) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	var system []anthropic.TextBlockParam
	for _, t := range turns {
		switch t.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: t.Content})
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	return messages, system
}
