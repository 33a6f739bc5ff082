// Package render writes an outline tree into a document as styled
// paragraphs with keyword highlighting.
package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/prettynotes/internal/docbuilder"
	"github.com/dgallion1/prettynotes/internal/highlight"
	"github.com/dgallion1/prettynotes/internal/outline"
)

// Renderer emits paragraphs for outline trees. It holds no per-document
// state and may be shared.
type Renderer struct {
	style Style
	hl    *highlight.Highlighter
}

// New creates a Renderer for the given style.
func New(style Style) *Renderer {
	return &Renderer{
		style: style,
		hl:    highlight.New(style.Rules, style.BodySize),
	}
}

// Render writes every main section of roots into doc. An empty tree writes
// the no-content message instead.
func (r *Renderer) Render(doc docbuilder.Document, roots []*outline.MainSection) {
	if len(roots) == 0 {
		r.RenderMessage(doc, "")
		return
	}
	for _, sec := range roots {
		r.mainSection(doc, sec)
		doc.AddParagraph(docbuilder.ParagraphFormat{}).AddBreak()
	}
}

// RenderRaw writes the no-content message followed by unparsed outline text
// as one highlighted block. Blank raw text writes only the message.
func (r *Renderer) RenderRaw(doc docbuilder.Document, raw string) {
	r.RenderMessage(doc, "")
	if strings.TrimSpace(raw) == "" {
		return
	}
	p := doc.AddParagraph(docbuilder.ParagraphFormat{Align: docbuilder.AlignLeft})
	r.hl.Highlight(p, raw, r.style.Font, r.style.TextColor, false)
}

// RenderMessage writes an explanatory paragraph. An empty msg uses the
// style's no-content message.
func (r *Renderer) RenderMessage(doc docbuilder.Document, msg string) {
	if msg == "" {
		msg = r.style.NoContentMessage
	}
	p := doc.AddParagraph(docbuilder.ParagraphFormat{Align: docbuilder.AlignLeft})
	p.AddRun(msg, docbuilder.RunStyle{Font: r.style.Font, Size: r.style.BodySize, Color: r.style.TextColor})
}

func (r *Renderer) mainSection(doc docbuilder.Document, sec *outline.MainSection) {
	indent := r.style.BaseIndent
	p := doc.AddParagraph(docbuilder.ParagraphFormat{
		LeftIndent:  docbuilder.Inches(indent),
		SpaceBefore: docbuilder.Points(r.style.SectionSpacing),
		SpaceAfter:  docbuilder.Points(r.style.SectionSpacingAfter),
		Align:       docbuilder.AlignLeft,
	})
	p.AddRun(sec.Marker+" ", r.markerStyle(r.style.HeadingSize))
	r.hl.Highlight(p, sec.Title, r.style.Font, r.style.TextColor, true)
	r.children(doc, sec.Children, indent+r.style.IndentUnit)
}

func (r *Renderer) subsection(doc docbuilder.Document, sub *outline.Subsection, indent float64) {
	p := doc.AddParagraph(docbuilder.ParagraphFormat{
		LeftIndent:  docbuilder.Inches(indent),
		SpaceBefore: docbuilder.Points(r.style.SubsectionSpacing),
		SpaceAfter:  docbuilder.Points(r.style.SubsectionSpacingAfter),
		Align:       docbuilder.AlignLeft,
	})
	p.AddRun(sub.Marker+" ", r.markerStyle(r.style.SubsectionMarkerSize))
	r.hl.Highlight(p, sub.Title, r.style.Font, r.style.TextColor, true)
	r.children(doc, sub.Children, indent+r.style.IndentUnit)
}

func (r *Renderer) bullet(doc docbuilder.Document, b *outline.Bullet, base float64) {
	level := b.Level
	if level < 1 {
		level = 1
	}
	p := doc.AddParagraph(docbuilder.ParagraphFormat{
		LeftIndent:  docbuilder.Inches(base + float64(level-1)*r.style.IndentUnit),
		SpaceBefore: docbuilder.Points(r.style.BulletSpacing),
		SpaceAfter:  docbuilder.Points(r.style.BulletSpacingAfter),
		Align:       docbuilder.AlignLeft,
	})
	p.AddRun(r.style.BulletGlyph, r.markerStyle(r.style.BodySize))
	r.hl.Highlight(p, b.Text, r.style.Font, r.style.TextColor, false)
}

// children renders nodes whose parent places them at indent.
func (r *Renderer) children(doc docbuilder.Document, nodes []outline.Node, indent float64) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *outline.Subsection:
			r.subsection(doc, n, indent)
		case *outline.Bullet:
			r.bullet(doc, n, indent)
		case *outline.MainSection:
			// Main sections are roots only; a nested one is rendered flat.
			r.mainSection(doc, n)
		default:
			panic(fmt.Sprintf("render: unknown outline node %T", n))
		}
	}
}

func (r *Renderer) markerStyle(size int) docbuilder.RunStyle {
	return docbuilder.RunStyle{Font: r.style.Font, Size: size, Color: r.style.TextColor, Bold: true}
}
