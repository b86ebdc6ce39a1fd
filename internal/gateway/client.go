// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the client for the Prism multi-model LLM
// gateway.
//
// The gateway fronts several providers behind one endpoint: chat
// completions speak the OpenAI protocol, Anthropic passthrough models
// speak the Anthropic protocol, and eval jobs and tool-invocation runs
// expose plain status resources that the TUI polls.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"

	"github.com/jeranaias/prism-tui/internal/evals"
)

// Configuration defaults for the gateway client.
const (
	// DefaultBaseURL is the local development gateway.
	DefaultBaseURL = "http://localhost:8090"

	// DefaultTimeout is the timeout for non-streaming requests.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond limits how hard the TUI polls the
	// gateway's status resources.
	DefaultRequestsPerSecond = 10

	// maxResponseSize bounds a status response body.
	maxResponseSize = 1 * 1024 * 1024
)

// Sentinel errors surfaced to panels as state, not exceptions.
var (
	ErrUnauthorized = errors.New("gateway rejected credentials")
	ErrNotFound     = errors.New("resource not found on gateway")
)

// Config configures a gateway client.
type Config struct {
	// BaseURL is the gateway root, e.g. https://prism.example.com.
	BaseURL string

	// APIKey is the bearer key for the gateway.
	APIKey string

	// RequestsPerSecond caps outbound request rate; zero uses the
	// default.
	RequestsPerSecond float64

	// Timeout applies to non-streaming requests; zero uses the default.
	Timeout time.Duration
}

// Client talks to one Prism gateway.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter

	oai       openai.Client
	anthropic anthropic.Client
}

// NewClient creates a gateway client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		oai: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL+"/v1"),
		),
		anthropic: anthropic.NewClient(
			anthropicoption.WithAPIKey(cfg.APIKey),
			anthropicoption.WithBaseURL(baseURL+"/anthropic"),
		),
	}
}

// BaseURL returns the gateway root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// MODELS
// =============================================================================

// ModelInfo describes one model the gateway can serve.
type ModelInfo struct {
	ID      string
	OwnedBy string
}

// ListModels returns the models available behind the gateway.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.oai.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, ModelInfo{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	return models, nil
}

// IsAnthropicModel reports whether a model routes through the gateway's
// Anthropic passthrough.
func IsAnthropicModel(modelName string) bool {
	return strings.HasPrefix(modelName, "anthropic/")
}

// =============================================================================
// STATUS RESOURCES
// =============================================================================

// EvalState is the gateway's status response for an eval job.
type EvalState struct {
	Status evals.Status `json:"status"`
	Score  float64      `json:"score,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// EvalStatus fetches the latest status of an eval job.
func (c *Client) EvalStatus(ctx context.Context, jobID string) (EvalState, error) {
	var state EvalState
	err := c.getJSON(ctx, "/v1/evals/"+jobID, &state)
	return state, err
}

// RunState is the gateway's status response for a tool-invocation run.
type RunState struct {
	Status evals.Status `json:"status"`
	Tool   string       `json:"tool,omitempty"`
	Detail string       `json:"detail,omitempty"`
}

// RunStatus fetches the latest status of a tool-invocation run.
func (c *Client) RunStatus(ctx context.Context, runID string) (RunState, error) {
	var state RunState
	err := c.getJSON(ctx, "/v1/runs/"+runID, &state)
	return state, err
}

// CancelEval asks the gateway to cancel an eval job.
func (c *Client) CancelEval(ctx context.Context, jobID string) error {
	return c.post(ctx, "/v1/evals/"+jobID+"/cancel")
}

// CancelRun asks the gateway to cancel a tool-invocation run.
func (c *Client) CancelRun(ctx context.Context, runID string) error {
	return c.post(ctx, "/v1/runs/"+runID+"/cancel")
}

// EventsURL returns the websocket endpoint streaming a run's events.
func (c *Client) EventsURL(runID string) string {
	ws := strings.Replace(c.baseURL, "http", "ws", 1)
	return ws + "/v1/runs/" + runID + "/events"
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

// getJSON performs a rate-limited GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	body := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

// post performs a rate-limited bodyless POST.
func (c *Client) post(ctx context.Context, path string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	return checkStatus(resp)
}

// authorize attaches the bearer key when configured.
func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// checkStatus maps HTTP status codes onto the client's error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	default:
		return nil
	}
}
