// Package reasoning wraps the local text-reasoning backend (an
// Ollama-compatible generate endpoint) behind a single request/response
// call.
package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/venturalabs/ventura/internal/config"
)

// Client defines the single operation the action pipeline needs from
// the reasoning backend.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaClient is a resty-backed implementation of Client.
type OllamaClient struct {
	httpClient *resty.Client
	model      string
}

// NewClient builds a reasoning client from configuration. The timeout
// bounds every call; a slow model fails fast instead of hanging, and
// there is no retry.
func NewClient(cfg config.ReasoningConfig) *OllamaClient {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &OllamaClient{httpClient: httpClient, model: cfg.Model}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt and returns the raw model answer. The
// caller decides whether the text parses as an action.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	}

	var respBody generateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/api/generate")

	if err != nil {
		return "", fmt.Errorf("reasoning api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("reasoning api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if respBody.Response == "" {
		return "", fmt.Errorf("empty response from reasoning backend")
	}

	return StripFences(respBody.Response), nil
}

// StripFences removes markdown code fences some models wrap around
// their JSON answers.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
