package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/prettynotes/internal/config"
	"github.com/dgallion1/prettynotes/internal/llm"
	"github.com/dgallion1/prettynotes/internal/parser"
	"github.com/dgallion1/prettynotes/internal/pipeline"
	"github.com/dgallion1/prettynotes/internal/preserve"
	"github.com/dgallion1/prettynotes/internal/render"
)

const statsWindow = time.Hour

// newGenerator builds the configured LLM backend wrapped with call stats.
func newGenerator(ctx context.Context, cfg config.Config) (*llm.Instrumented, error) {
	params := llm.DefaultParams()
	var gen llm.Generator
	switch cfg.Provider {
	case config.ProviderClaude:
		gen = llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMBaseURL, params, cfg.LLMTimeout)
	case config.ProviderGemini:
		g, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMBaseURL, params)
		if err != nil {
			return nil, err
		}
		gen = g
	case config.ProviderGroq:
		gen = llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.LLMBaseURL, params, cfg.LLMTimeout)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
	return llm.NewInstrumented(gen, statsWindow), nil
}

// newConverter wires extraction, the LLM, preservation checks and the
// renderer according to cfg.
func newConverter(cfg config.Config, gen llm.Generator, log *slog.Logger) (*pipeline.Converter, error) {
	style, err := render.LoadStyle(cfg.StyleFile)
	if err != nil {
		return nil, err
	}
	extract := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	checker := preserve.NewChecker(cfg.PreserveMode, cfg.PreserveThreshold, log)
	return pipeline.NewConverter(gen, checker, render.New(style), log, pipeline.Options{
		MaxChunkChars: cfg.MaxChunkChars,
		MaxRetries:    cfg.LLMMaxRetries,
		LLMTimeout:    cfg.LLMTimeout,
		Extract:       extract.Extract,
	}), nil
}
