package docbuilder

import (
	"errors"
	"io"
	"strings"
)

// Run is one recorded run of text.
type Run struct {
	Text  string
	Style RunStyle
	Break bool
}

// RecordedParagraph keeps the format and runs of one paragraph.
type RecordedParagraph struct {
	Format ParagraphFormat
	Runs   []Run
}

func (p *RecordedParagraph) AddRun(text string, style RunStyle) {
	if text == "" {
		return
	}
	p.Runs = append(p.Runs, Run{Text: text, Style: style})
}

func (p *RecordedParagraph) AddBreak() {
	p.Runs = append(p.Runs, Run{Break: true})
}

// Text joins the paragraph's run texts.
func (p *RecordedParagraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Recorder is an in-memory Document. WriteTo emits a plain-text rendering
// with one line per paragraph, indented by its left indent.
type Recorder struct {
	Paragraphs []*RecordedParagraph
}

func (r *Recorder) AddParagraph(format ParagraphFormat) Paragraph {
	p := &RecordedParagraph{Format: format}
	r.Paragraphs = append(r.Paragraphs, p)
	return p
}

func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, p := range r.Paragraphs {
		cols := int(p.Format.LeftIndent / (Inch / 8))
		sb.WriteString(strings.Repeat(" ", cols))
		sb.WriteString(strings.TrimRight(p.Text(), "\n"))
		sb.WriteString("\n")
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Save is not supported; a Recorder lives only in memory.
func (r *Recorder) Save(string) error {
	return errors.New("recorder: save not supported")
}
