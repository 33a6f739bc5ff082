// Package parser extracts plain text from uploaded documents. Paragraphs in
// the returned text are separated by blank lines.
package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoText is returned when a document yields no extractable text.
var ErrNoText = errors.New("no text extracted")

// Parser converts raw document bytes into plain text.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune extraction.
type Options struct {
	// FallbackPdftotext retries PDFs with the pdftotext binary when the Go
	// reader fails.
	FallbackPdftotext bool
}

// DefaultOptions enables every fallback.
func DefaultOptions() Options {
	return Options{FallbackPdftotext: true}
}

// ForFile returns the appropriate parser for a filename.
func (o Options) ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: o.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// Extract reads the file at path and returns its text. A document with no
// text yields ErrNoText.
func (o Options) Extract(path string) (string, error) {
	p, err := o.ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	text, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), ErrNoText)
	}
	return text, nil
}

// Extract reads the file at path with DefaultOptions.
func Extract(path string) (string, error) {
	return DefaultOptions().Extract(path)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// joinBlocks trims each block, drops empty ones and separates the rest with
// a blank line.
func joinBlocks(blocks []string) string {
	kept := blocks[:0:0]
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
