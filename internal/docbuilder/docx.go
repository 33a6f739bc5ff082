package docbuilder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxDocument writes paragraphs into a .docx package. go-docx cannot emit
// w:after, so a paragraph's SpaceAfter is added to the next paragraph's
// w:before; Word sums the two gaps the same way.
type DocxDocument struct {
	doc          *docx.Docx
	pendingAfter Length
}

// NewDocx creates an empty A4 document with the default theme.
func NewDocx() *DocxDocument {
	return &DocxDocument{doc: docx.New().WithDefaultTheme().WithA4Page()}
}

// AddParagraph appends a paragraph with the given layout.
func (d *DocxDocument) AddParagraph(format ParagraphFormat) Paragraph {
	p := d.doc.AddParagraph()
	if format.Align != "" {
		p.Justification(string(format.Align))
	}
	before := format.SpaceBefore + d.pendingAfter
	d.pendingAfter = max(format.SpaceAfter, 0)
	if format.LeftIndent > 0 || before > 0 {
		if p.Properties == nil {
			p.Properties = &docx.ParagraphProperties{}
		}
		if format.LeftIndent > 0 {
			p.Properties.Ind = &docx.Ind{Left: int(format.LeftIndent)}
		}
		if before > 0 {
			p.Properties.Spacing = &docx.Spacing{Before: int(before)}
		}
	}
	return &docxParagraph{p: p}
}

// WriteTo serializes the document.
func (d *DocxDocument) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Save writes the document to path, creating parent directories as needed.
func (d *DocxDocument) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := d.doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

type docxParagraph struct {
	p *docx.Paragraph
}

func (dp *docxParagraph) AddRun(text string, style RunStyle) {
	if text == "" {
		return
	}
	r := dp.p.AddText(text)
	for _, child := range r.Children {
		if t, ok := child.(*docx.Text); ok && strings.TrimSpace(t.Text) != t.Text {
			t.XMLSpace = "preserve"
		}
	}
	if style.Font != "" {
		r.Font(style.Font, style.Font, style.Font, "")
	}
	if style.Size > 0 {
		r.Size(strconv.Itoa(style.Size * 2))
	}
	if style.Color != "" {
		r.Color(strings.TrimPrefix(style.Color, "#"))
	}
	if style.Bold {
		r.Bold()
	}
}

func (dp *docxParagraph) AddBreak() {
	dp.p.AddText("\n")
}
