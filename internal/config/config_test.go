package config

import (
	"testing"
	"time"

	"github.com/dgallion1/prettynotes/internal/preserve"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LLM_PROVIDER", "GROQ_MODEL", "MAX_CHUNK_CHARS", "PRESERVE_MODE", "OUTPUT_DIR", "LLM_MAX_RETRIES", "LLM_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.Provider != ProviderGroq || cfg.Model() != "deepseek-r1-distill-llama-70b" {
		t.Errorf("unexpected provider defaults: %q %q", cfg.Provider, cfg.Model())
	}
	if cfg.MaxChunkChars != 12000 {
		t.Errorf("expected 12000 chunk chars, got %d", cfg.MaxChunkChars)
	}
	if cfg.PreserveMode != preserve.ModeSimple {
		t.Errorf("expected simple preserve mode, got %q", cfg.PreserveMode)
	}
	if cfg.LLMMaxRetries != 0 {
		t.Errorf("expected retries off by default, got %d", cfg.LLMMaxRetries)
	}
	if cfg.LLMTimeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.LLMTimeout)
	}
	if cfg.OutputDir != "generated_docs" {
		t.Errorf("expected generated_docs, got %q", cfg.OutputDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("MAX_CHUNK_CHARS", "500")
	t.Setenv("PRESERVE_MODE", "STRICT")
	t.Setenv("PRESERVE_THRESHOLD", "0.85")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Provider != ProviderGemini || cfg.Model() != "gemini-test" {
		t.Errorf("unexpected provider: %q %q", cfg.Provider, cfg.Model())
	}
	if cfg.MaxChunkChars != 500 || cfg.PreserveMode != preserve.ModeStrict || cfg.PreserveThreshold != 0.85 {
		t.Errorf("unexpected conversion settings: %+v", cfg)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.LLMTimeout)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected invalid worker count to fall back to 2, got %d", cfg.WorkerCount)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_CHUNK_CHARS", "lots")
	t.Setenv("JOB_TTL", "forever")
	cfg := Load()
	if cfg.MaxChunkChars != 12000 || cfg.JobTTL != time.Hour {
		t.Errorf("expected defaults for malformed values, got %d %v", cfg.MaxChunkChars, cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Provider: ProviderGroq, GroqAPIKey: "k", PreserveMode: preserve.ModeSimple}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid groq", func(*Config) {}, false},
		{"missing groq key", func(c *Config) { c.GroqAPIKey = "" }, true},
		{"claude needs key", func(c *Config) { c.Provider = ProviderClaude }, true},
		{"claude with key", func(c *Config) { c.Provider = ProviderClaude; c.AnthropicAPIKey = "a" }, false},
		{"gemini needs key", func(c *Config) { c.Provider = ProviderGemini }, true},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, true},
		{"bad mode", func(c *Config) { c.PreserveMode = "fuzzy" }, true},
		{"threshold above one", func(c *Config) { c.PreserveThreshold = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateServer_RequiresAPIKey(t *testing.T) {
	c := Config{Provider: ProviderGroq, GroqAPIKey: "k", PreserveMode: preserve.ModeSimple}
	if err := c.ValidateServer(); err == nil {
		t.Error("expected error without PRETTYNOTES_API_KEY")
	}
	c.APIKey = "secret"
	if err := c.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
