package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAICompatClient calls any chat-completions endpoint that follows the
// OpenAI wire format. It is used for Groq.
type OpenAICompatClient struct {
	client openai.Client
	model  string
	params Params
}

// NewGroqClient creates a client for Groq. An empty baseURL selects
// GroqBaseURL.
func NewGroqClient(apiKey, model, baseURL string, params Params, timeout time.Duration) *OpenAICompatClient {
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAICompatClient{
		client: openai.NewClient(opts...),
		model:  model,
		params: params,
	}
}

// Model returns the configured model name.
func (c *OpenAICompatClient) Model() string { return c.model }

// Generate sends one chunk as a chat completion and returns its outline.
func (c *OpenAICompatClient) Generate(ctx context.Context, prompt, chunk string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(userMessage(prompt, chunk)),
		},
		Temperature: openai.Float(c.params.Temperature),
		TopP:        openai.Float(c.params.TopP),
		MaxTokens:   openai.Int(int64(c.params.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500) {
			return "", &RetryableError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" || choice.Message.Refusal != "" {
		return "", fmt.Errorf("finish reason %q: %w", choice.FinishReason, ErrBlocked)
	}
	return finish(choice.Message.Content)
}
