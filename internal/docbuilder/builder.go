// Package docbuilder is the structured-document surface the renderer writes
// to: paragraphs with indentation and spacing, and runs with font, size,
// color and weight.
package docbuilder

import "io"

// Length is a distance in twentieths of a point (twips).
type Length int

const (
	Point Length = 20
	Inch  Length = 1440
)

// Inches converts a length in inches to twips.
func Inches(in float64) Length {
	return Length(in * float64(Inch))
}

// Points converts a length in points to twips.
func Points(pt float64) Length {
	return Length(pt * float64(Point))
}

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const AlignLeft Alignment = "left"

// ParagraphFormat describes paragraph-level layout.
type ParagraphFormat struct {
	LeftIndent  Length
	SpaceBefore Length
	SpaceAfter  Length
	Align       Alignment
}

// RunStyle describes character formatting for one run. Size is in points.
type RunStyle struct {
	Font  string
	Size  int
	Color string
	Bold  bool
}

// Paragraph receives runs in order.
type Paragraph interface {
	AddRun(text string, style RunStyle)
	AddBreak()
}

// Document is an ordered list of paragraphs that can be serialized.
type Document interface {
	AddParagraph(format ParagraphFormat) Paragraph
	WriteTo(w io.Writer) (int64, error)
	Save(path string) error
}
