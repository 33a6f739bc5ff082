package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/prettynotes/internal/config"
	"github.com/dgallion1/prettynotes/internal/pipeline"
	"github.com/dgallion1/prettynotes/internal/preserve"
)

func convertCmd() *cobra.Command {
	var out string
	var provider string
	var model string
	var styleFile string
	var preserveMode string
	var maxChars int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document into a styled outline DOCX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cfg := config.Load()
			if provider != "" {
				cfg.Provider = strings.ToLower(provider)
			}
			if model != "" {
				setModel(&cfg, model)
			}
			if styleFile != "" {
				cfg.StyleFile = styleFile
			}
			if preserveMode != "" {
				cfg.PreserveMode = preserve.Mode(strings.ToLower(preserveMode))
			}
			if maxChars > 0 {
				cfg.MaxChunkChars = maxChars
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			input := args[0]
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input: %w", err)
			}
			if out == "" {
				out = pipeline.OutputPath(input, cfg.OutputDir)
			}

			gen, err := newGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			conv, err := newConverter(cfg, gen, log)
			if err != nil {
				return err
			}

			res, err := conv.Convert(cmd.Context(), input, out)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(map[string]any{
				"output":        res.OutputPath,
				"chunks":        res.Chunks,
				"chunks_failed": res.ChunksFailed,
				"outline":       res.Outline,
				"fallback":      res.Fallback,
				"llm":           gen.Snapshot(),
			}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output DOCX path (default: OUTPUT_DIR/<name>"+pipeline.OutputSuffix+")")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: claude|gemini|groq (default: LLM_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "model name for the selected provider")
	cmd.Flags().StringVar(&styleFile, "style", "", "YAML style file")
	cmd.Flags().StringVar(&preserveMode, "preserve", "", "preservation check: simple|strict")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "maximum characters per chunk")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func setModel(cfg *config.Config, model string) {
	switch cfg.Provider {
	case config.ProviderClaude:
		cfg.AnthropicModel = model
	case config.ProviderGemini:
		cfg.GeminiModel = model
	default:
		cfg.GroqModel = model
	}
}
