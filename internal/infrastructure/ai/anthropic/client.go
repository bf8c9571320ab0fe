// Package anthropic provides the cloud basic generation backend using the
// Anthropic messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/recipejson"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// Client implements the RecipeProvider interface against the Anthropic API.
// One request per call; no internal retries.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates an Anthropic client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("anthropic-client"),
	}
}

var _ outbound.RecipeProvider = (*Client)(nil)

// Backend identifies this provider in routing decisions.
func (c *Client) Backend() recipe.Backend {
	return recipe.BackendCloudBasic
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// GenerateRecipe sends the prompt and parses the canonical recipe JSON out of
// the response text.
func (c *Client) GenerateRecipe(ctx context.Context, prompt string) (*recipe.Recipe, error) {
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload, err := recipejson.Parse(raw)
	if err != nil {
		c.logger.Error("failed to parse model response", zap.Error(err))
		return nil, errors.NewParseError("anthropic", err)
	}

	return payload.ToRecipe(), nil
}

// Complete sends the prompt and returns the raw model text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewAuthError("anthropic")
	}

	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: 2000,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewProviderError("anthropic", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderError("anthropic", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.NewAuthError("anthropic")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("anthropic call failed", zap.Int("status", resp.StatusCode))
		return "", errors.NewProviderError("anthropic", nil).WithMetadata("status", resp.StatusCode)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", errors.NewParseError("anthropic", err)
	}
	if len(msgResp.Content) == 0 {
		return "", errors.NewParseError("anthropic", nil).WithMetadata("reason", "empty content")
	}

	return msgResp.Content[0].Text, nil
}
