package outline

import (
	"regexp"
	"strings"
)

// Placeholder root used when bullets appear before any main section.
const (
	OrphanMarker = "?"
	OrphanTitle  = "Orphaned Points"
)

var (
	mainSectionRe = regexp.MustCompile(`^(\d+\.)\s+(.*)$`)
	subsectionRe  = regexp.MustCompile(`^(\d+\.[A-Za-z]\.?)\s+(.*)$`)
)

// frame is a candidate bullet parent and the indentation it was opened at.
type frame struct {
	node   Node
	indent int
}

// builder carries the scan state for one Parse call.
type builder struct {
	roots   []*MainSection
	current *MainSection
	stack   []frame
}

// Parse converts outline text into a sequence of main sections. Lines that
// match none of the grammar's forms are ignored. Indentation counts leading
// spaces only: tabs are skipped when matching a line but add no depth.
func Parse(text string) []*MainSection {
	b := &builder{}
	for _, raw := range strings.Split(text, "\n") {
		b.line(strings.TrimRight(raw, " \t\r"))
	}
	return b.roots
}

func (b *builder) line(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	ls := leadingSpaces(line)
	content := strings.TrimLeft(line, " \t")

	if ls == 0 {
		if m := mainSectionRe.FindStringSubmatch(content); m != nil {
			sec := &MainSection{Marker: m[1], Title: strings.TrimSpace(m[2])}
			b.roots = append(b.roots, sec)
			b.current = sec
			b.stack = []frame{{node: sec, indent: 0}}
			return
		}
	}

	if ls > 0 && b.current != nil && !strings.HasPrefix(content, BulletPrefix) {
		if m := subsectionRe.FindStringSubmatch(content); m != nil {
			sub := &Subsection{Marker: m[1], Title: strings.TrimSpace(m[2]), Indent: ls}
			b.current.Children = append(b.current.Children, sub)
			for len(b.stack) > 0 && b.stack[len(b.stack)-1].indent >= ls {
				b.stack = b.stack[:len(b.stack)-1]
			}
			b.stack = append(b.stack, frame{node: sub, indent: ls})
			return
		}
	}

	if indent, text, ok := bulletColumn(content, ls); ok {
		b.bullet(indent, text)
	}
}

func (b *builder) bullet(indent int, text string) {
	var parent frame
	found := false
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].indent <= indent {
			parent = b.stack[i]
			b.stack = b.stack[:i+1]
			found = true
			break
		}
	}

	if !found {
		if len(b.roots) == 0 {
			orphan := &MainSection{Marker: OrphanMarker, Title: OrphanTitle}
			b.roots = append(b.roots, orphan)
			b.stack = []frame{{node: orphan, indent: 0}}
		}
		parent = frame{node: b.roots[len(b.roots)-1], indent: 0}
	}

	level := 1 + (indent-parent.indent)/2
	if level < 1 {
		level = 1
	}
	bullet := &Bullet{Text: text, Level: level}

	switch p := parent.node.(type) {
	case *MainSection:
		p.Children = append(p.Children, bullet)
	case *Subsection:
		p.Children = append(p.Children, bullet)
	}
}

// bulletColumn reports whether content is a bullet and, if so, the column
// where its "|-- " prefix starts, given that content begins at column ls.
// Pipe continuation columns ("| ") before the prefix count toward the
// column, so "| |-- x" sits two columns deeper than "|-- x".
func bulletColumn(content string, ls int) (int, string, bool) {
	col := ls
	rest := content
	for {
		if strings.HasPrefix(rest, BulletPrefix) {
			return col, strings.TrimSpace(rest[len(BulletPrefix):]), true
		}
		if !strings.HasPrefix(rest, "|") {
			return 0, "", false
		}
		n := leadingSpaces(rest[1:])
		if n == 0 {
			return 0, "", false
		}
		rest = rest[1+n:]
		col += 1 + n
	}
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}
