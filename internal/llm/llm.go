// Package llm turns a text chunk into outline text using a hosted model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Generator produces outline text for one chunk. prompt carries the
// formatting instructions and chunk context; chunk is the source text.
type Generator interface {
	Generate(ctx context.Context, prompt, chunk string) (string, error)
	Model() string
}

var (
	// ErrEmpty means the model answered with no usable text.
	ErrEmpty = errors.New("llm: empty response")
	// ErrBlocked means the provider refused the prompt or the answer.
	ErrBlocked = errors.New("llm: response blocked")
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Params are the sampling settings shared by every backend.
type Params struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultParams returns the sampling settings used for outlining.
func DefaultParams() Params {
	return Params{Temperature: 0.3, TopP: 0.95, MaxTokens: 4096}
}

var (
	codeBlockRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\\s*```$")
	thinkRe     = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// CleanResponse removes reasoning blocks and a wrapping code fence from a
// model answer and trims surrounding blank lines. Leading indentation of the
// first outline line is kept.
func CleanResponse(s string) string {
	s = thinkRe.ReplaceAllString(s, "")
	trimmed := strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(trimmed); len(m) > 1 {
		s = m[1]
	}
	s = strings.TrimRight(s, " \t\r\n")
	return strings.TrimLeft(s, "\r\n")
}

func finish(text string) (string, error) {
	text = CleanResponse(text)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
