package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/prettynotes/internal/chunker"
	"github.com/dgallion1/prettynotes/internal/docbuilder"
	"github.com/dgallion1/prettynotes/internal/llm"
	"github.com/dgallion1/prettynotes/internal/outline"
	"github.com/dgallion1/prettynotes/internal/parser"
	"github.com/dgallion1/prettynotes/internal/preserve"
	"github.com/dgallion1/prettynotes/internal/render"
)

// OutputSuffix is appended to the input's base name to form the default
// output filename.
const OutputSuffix = "_styled_outline.docx"

// Fallback names the degraded document a conversion produced instead of a
// structured outline.
type Fallback string

const (
	FallbackNone            Fallback = ""
	FallbackNoText          Fallback = "no_text"
	FallbackNoChunks        Fallback = "no_chunks"
	FallbackAllChunksFailed Fallback = "all_chunks_failed"
	FallbackUnparsed        Fallback = "unparsed_outline"
)

// Fallback document messages.
const (
	msgNoText      = "Could not extract any text from %s."
	msgNoChunks    = "The extracted text contained no processable content."
	msgAllFailed   = "No outline could be generated from any part of the document."
	outlineJoiner  = "\n"
	defaultTimeout = 120 * time.Second
)

// Result summarizes one conversion.
type Result struct {
	OutputPath   string
	Chunks       int
	ChunksFailed int
	Outline      outline.Counts
	Preservation []preserve.Report
	Fallback     Fallback
	TextHash     string
}

// Tracker receives progress while a document converts. *Job implements it.
type Tracker interface {
	SetStatus(status JobStatus, phase string)
	SetTotalChunks(n int)
	ChunkDone(index int, err error)
	AddPreservation(r preserve.Report)
}

type nopTracker struct{}

func (nopTracker) SetStatus(JobStatus, string)     {}
func (nopTracker) SetTotalChunks(int)              {}
func (nopTracker) ChunkDone(int, error)            {}
func (nopTracker) AddPreservation(preserve.Report) {}

// Options tune a Converter. Zero values select defaults.
type Options struct {
	MaxChunkChars int
	MaxRetries    int
	LLMTimeout    time.Duration
	// Extract reads document text; defaults to parser.Extract.
	Extract func(path string) (string, error)
	// NewDocument creates the output document; defaults to a DOCX.
	NewDocument func() docbuilder.Document
}

// Converter turns one document into a styled outline. It holds no
// per-document state, so one Converter may serve many workers.
type Converter struct {
	gen      llm.Generator
	checker  *preserve.Checker
	renderer *render.Renderer
	log      *slog.Logger
	opts     Options
}

func NewConverter(gen llm.Generator, checker *preserve.Checker, renderer *render.Renderer, log *slog.Logger, opts Options) *Converter {
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = chunker.DefaultMaxChars
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultTimeout
	}
	if opts.Extract == nil {
		opts.Extract = parser.Extract
	}
	if opts.NewDocument == nil {
		opts.NewDocument = func() docbuilder.Document { return docbuilder.NewDocx() }
	}
	if log == nil {
		log = slog.Default()
	}
	if checker == nil {
		checker = preserve.NewChecker(preserve.ModeSimple, 0, log)
	}
	return &Converter{gen: gen, checker: checker, renderer: renderer, log: log, opts: opts}
}

// OutputPath derives the default output path for inputPath inside dir.
func OutputPath(inputPath, dir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+OutputSuffix)
}

// Convert converts inputPath and saves the document to outputPath. Only a
// failure to save returns an error; every other problem yields a fallback
// document.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (Result, error) {
	return c.Run(ctx, inputPath, outputPath, nopTracker{})
}

// Run is Convert with progress reporting.
func (c *Converter) Run(ctx context.Context, inputPath, outputPath string, tr Tracker) (Result, error) {
	log := c.log.With("input", filepath.Base(inputPath))
	res := Result{OutputPath: outputPath}
	doc := c.opts.NewDocument()

	c.build(ctx, log, doc, inputPath, tr, &res)

	tr.SetStatus(StatusRendering, "saving")
	if err := doc.Save(outputPath); err != nil {
		log.Error("save failed", "output", outputPath, "error", err)
		return res, fmt.Errorf("save %s: %w", outputPath, err)
	}
	log.Info("document saved", "output", outputPath, "fallback", string(res.Fallback))
	return res, nil
}

// build fills doc with either the outline or a fallback message.
func (c *Converter) build(ctx context.Context, log *slog.Logger, doc docbuilder.Document, inputPath string, tr Tracker, res *Result) {
	// Phase 1: Extract
	tr.SetStatus(StatusExtracting, "extracting")
	text, err := c.opts.Extract(inputPath)
	if err != nil {
		log.Warn("text extraction failed", "error", err)
		res.Fallback = FallbackNoText
		c.renderer.RenderMessage(doc, fmt.Sprintf(msgNoText, filepath.Base(inputPath)))
		return
	}
	res.TextHash = ContentHashHex([]byte(text))

	// Phase 2: Chunk
	tr.SetStatus(StatusChunking, "chunking")
	chunks := chunker.Split(text, c.opts.MaxChunkChars)
	res.Chunks = len(chunks)
	tr.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks), "chars", len([]rune(text)))
	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		res.Fallback = FallbackNoChunks
		c.renderer.RenderMessage(doc, msgNoChunks)
		return
	}

	// Phase 3: Outline each chunk in order.
	tr.SetStatus(StatusOutlining, "outlining")
	var outlines []string
	for i, chunk := range chunks {
		prompt := llm.BuildChunkPrompt(i+1, len(chunks))
		log.Debug("outlining chunk", "chunk", i+1, "of", len(chunks),
			"est_tokens", chunker.EstimateTokens(prompt)+chunker.EstimateTokens(chunk))
		out, err := c.generate(ctx, log, prompt, chunk, i)
		tr.ChunkDone(i, err)
		if err != nil {
			res.ChunksFailed++
			switch {
			case errors.Is(err, llm.ErrBlocked):
				log.Warn("chunk blocked by provider", "chunk", i+1, "error", err)
			case errors.Is(err, llm.ErrEmpty):
				log.Warn("chunk returned no outline", "chunk", i+1)
			default:
				log.Error("chunk outline failed", "chunk", i+1, "error", err)
			}
			continue
		}
		report := c.checker.Check(i+1, out, chunk)
		res.Preservation = append(res.Preservation, report)
		tr.AddPreservation(report)
		outlines = append(outlines, out)
	}
	if len(outlines) == 0 {
		log.Warn("no outlines generated", "chunks", len(chunks))
		res.Fallback = FallbackAllChunksFailed
		c.renderer.RenderMessage(doc, msgAllFailed)
		return
	}

	// Phase 4: Parse and render.
	tr.SetStatus(StatusRendering, "rendering")
	combined := strings.Join(outlines, outlineJoiner)
	roots := outline.Parse(combined)
	res.Outline = outline.Stats(roots)
	if len(roots) == 0 {
		log.Warn("outline text did not parse, rendering raw text")
		res.Fallback = FallbackUnparsed
		c.renderer.RenderRaw(doc, combined)
		return
	}
	log.Info("outline parsed",
		"sections", res.Outline.Sections,
		"subsections", res.Outline.Subsections,
		"bullets", res.Outline.Bullets,
	)
	c.renderer.Render(doc, roots)
}

// generate calls the LLM for one chunk, retrying transient errors up to
// MaxRetries times.
func (c *Converter) generate(ctx context.Context, log *slog.Logger, prompt, chunk string, index int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.opts.LLMTimeout)
		out, err := c.gen.Generate(callCtx, prompt, chunk)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !llm.IsRetryable(err) || attempt == c.opts.MaxRetries {
			break
		}
		log.Warn("retryable llm error", "chunk", index+1, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// removeFiles deletes the job's input and output files, ignoring ones that
// are already gone.
func removeFiles(log *slog.Logger, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("remove file failed", "path", p, "error", err)
		}
	}
}
