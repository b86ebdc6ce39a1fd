// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/prism-tui/internal/model"
)

// TokenHandler receives each token delta as it arrives. Handlers run on
// the streaming goroutine and must not block.
type TokenHandler func(token string)

// StreamChat streams a chat completion from the gateway. Token deltas
// are delivered through onToken as they arrive; the returned string is
// the complete assembled content, NFC-normalized. Statistics are always
// returned, even on error, so a partial stream keeps its timings.
func (c *Client) StreamChat(ctx context.Context, modelName string, turns []model.Turn, onToken TokenHandler) (string, *model.Statistics, error) {
	stats := model.NewStatistics()

	var content string
	var err error
	if IsAnthropicModel(modelName) {
		content, err = c.streamAnthropic(ctx, modelName, turns, onToken, stats)
	} else {
		content, err = c.streamOpenAI(ctx, modelName, turns, onToken, stats)
	}

	// Normalize once at assembly so downstream segmentation and width
	// measurement see composed forms.
	content = norm.NFC.String(content)

	if stats.CompletionTokens == 0 {
		stats.Finalize(estimateTokens(content))
	}
	return content, stats, err
}

// streamOpenAI drives the OpenAI-protocol streaming path.
func (c *Client) streamOpenAI(ctx context.Context, modelName string, turns []model.Turn, onToken TokenHandler, stats *model.Statistics) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    modelName,
		Messages: toOpenAIMessages(turns),
	}

	stream := c.oai.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	var completionTokens int
	for stream.Next() {
		chunk := stream.Current()

		if chunk.Usage.CompletionTokens > 0 {
			completionTokens = int(chunk.Usage.CompletionTokens)
			stats.PromptTokens = int(chunk.Usage.PromptTokens)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		stats.RecordFirstToken()
		sb.WriteString(delta)
		if onToken != nil {
			onToken(delta)
		}
	}
	if err := stream.Err(); err != nil {
		return sb.String(), fmt.Errorf("stream failed: %w", err)
	}

	if completionTokens > 0 {
		stats.Finalize(completionTokens)
	}
	return sb.String(), nil
}

// toOpenAIMessages converts conversation turns to the request shape.
func toOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(t.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(t.Content))
		default:
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}
	return messages
}

// estimateTokens approximates token count when the gateway omits usage.
// Roughly 4 characters per token for English text.
func estimateTokens(content string) int {
	return len(content) / 4
}
