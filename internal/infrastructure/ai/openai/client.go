// Package openai provides the cloud premium generation backend using the
// OpenAI chat completions API.
package openai

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

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the RecipeProvider interface against the OpenAI API.
// It performs exactly one request per call; retry and fallback belong to the
// router.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates an OpenAI client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("openai-client"),
	}
}

var _ outbound.RecipeProvider = (*Client)(nil)

// Backend identifies this provider in routing decisions.
func (c *Client) Backend() recipe.Backend {
	return recipe.BackendCloudPremium
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
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
		return nil, errors.NewParseError("openai", err)
	}

	return payload.ToRecipe(), nil
}

// Complete sends the prompt and returns the raw model text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewAuthError("openai")
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewProviderError("openai", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderError("openai", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.NewAuthError("openai")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("openai call failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body[:min(len(body), 500)]),
		)
		return "", errors.NewProviderError("openai", nil).WithMetadata("status", resp.StatusCode)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.NewParseError("openai", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.NewParseError("openai", nil).WithMetadata("reason", "no choices returned")
	}

	c.logger.Debug("openai call successful",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}
