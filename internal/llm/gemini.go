package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	params Params
}

// NewGeminiClient creates a client. baseURL overrides the API endpoint when
// non-empty.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, params Params) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model, params: params}, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string { return g.model }

// Generate sends one chunk to Gemini and returns its outline.
func (g *GeminiClient) Generate(ctx context.Context, prompt, chunk string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(g.params.Temperature)),
		TopP:              genai.Ptr(float32(g.params.TopP)),
		MaxOutputTokens:   int32(g.params.MaxTokens),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(userMessage(prompt, chunk), genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500) {
			return "", &RetryableError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini prompt blocked (%s): %w", res.PromptFeedback.BlockReason, ErrBlocked)
	}
	for _, c := range res.Candidates {
		switch c.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
			return "", fmt.Errorf("gemini finish reason %s: %w", c.FinishReason, ErrBlocked)
		}
	}
	return finish(res.Text())
}
