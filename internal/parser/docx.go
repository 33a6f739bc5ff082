package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Each non-empty paragraph, headings
// included, becomes one block.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (string, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "prettynotes-docx-*.docx")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var blocks []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			blocks = append(blocks, docxParagraphText(it))
		case *docx.Table:
			blocks = append(blocks, docxTableText(it))
		}
	}
	return joinBlocks(blocks), nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteString("\t")
			case *docx.BarterRabbet:
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// docxTableText renders a table one row per line, cells joined by " | ".
func docxTableText(tbl *docx.Table) string {
	var lines []string
	for _, row := range tbl.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if line := strings.TrimSpace(strings.Join(cells, " | ")); line != "" && line != "|" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
