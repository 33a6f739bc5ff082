package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/prettynotes/internal/chunker"
	"github.com/dgallion1/prettynotes/internal/preserve"
)

// LLM providers.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// LLM
	Provider        string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	GroqAPIKey      string
	GroqModel       string
	LLMBaseURL      string
	LLMTimeout      time.Duration
	LLMMaxRetries   int

	// Conversion
	MaxChunkChars     int
	PreserveMode      preserve.Mode
	PreserveThreshold float64
	StyleFile         string
	OutputDir         string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PRETTYNOTES_API_KEY"),

		Provider:        strings.ToLower(envOr("LLM_PROVIDER", ProviderGroq)),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       envOr("GROQ_MODEL", "deepseek-r1-distill-llama-70b"),
		LLMBaseURL:      os.Getenv("LLM_BASE_URL"),
		LLMTimeout:      envDuration("LLM_TIMEOUT", 120*time.Second),
		LLMMaxRetries:   envInt("LLM_MAX_RETRIES", 0),

		MaxChunkChars:     envInt("MAX_CHUNK_CHARS", chunker.DefaultMaxChars),
		PreserveMode:      preserve.Mode(strings.ToLower(envOr("PRESERVE_MODE", string(preserve.ModeSimple)))),
		PreserveThreshold: envFloat("PRESERVE_THRESHOLD", 0),
		StyleFile:         os.Getenv("STYLE_FILE"),
		OutputDir:         envOr("OUTPUT_DIR", "generated_docs"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = chunker.DefaultMaxChars
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings needed to talk to the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	if _, err := preserve.ParseMode(string(c.PreserveMode)); err != nil {
		return fmt.Errorf("PRESERVE_MODE: %w", err)
	}
	if c.PreserveThreshold < 0 || c.PreserveThreshold > 1 {
		return fmt.Errorf("PRESERVE_THRESHOLD must be within [0,1], got %v", c.PreserveThreshold)
	}
	return nil
}

// ValidateServer adds the checks that only apply to the HTTP server.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("PRETTYNOTES_API_KEY is required")
	}
	return nil
}

// Model returns the model name configured for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderClaude:
		return c.AnthropicModel
	case ProviderGemini:
		return c.GeminiModel
	default:
		return c.GroqModel
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
