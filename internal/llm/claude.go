package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

// ClaudeClient calls the Anthropic Messages API.
type ClaudeClient struct {
	apiKey     string
	model      string
	url        string
	params     Params
	httpClient *http.Client
}

// NewClaudeClient creates a client. An empty url selects the public API.
func NewClaudeClient(apiKey, model, url string, params Params, timeout time.Duration) *ClaudeClient {
	if url == "" {
		url = anthropicURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ClaudeClient{
		apiKey: apiKey,
		model:  model,
		url:    url,
		params: params,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Model returns the configured model name.
func (c *ClaudeClient) Model() string { return c.model }

// Generate sends one chunk to Claude and returns its outline.
func (c *ClaudeClient) Generate(ctx context.Context, prompt, chunk string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.params.MaxTokens,
		System:    SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userMessage(prompt, chunk)},
		},
	}
	if c.params.Temperature > 0 {
		t := c.params.Temperature
		reqBody.Temperature = &t
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if apiResp.StopReason == "refusal" {
		return "", fmt.Errorf("claude stop reason %q: %w", apiResp.StopReason, ErrBlocked)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return finish(sb.String())
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
