package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Markup is dropped;
// headings, paragraphs and list items each become a block.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				blocks = append(blocks, extractText(item, src))
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		default:
			blocks = append(blocks, extractText(n, src))
		}
	}
	return joinBlocks(blocks), nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		// Nested blocks (list item paragraphs) are separated by a newline.
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(extractText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
