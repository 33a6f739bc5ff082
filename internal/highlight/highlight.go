// Package highlight splits text into plain and keyword-colored runs.
package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/prettynotes/internal/docbuilder"
)

type keyword struct {
	re    *regexp.Regexp
	color string
}

// Segment is one piece of highlighted output. Color is empty for plain text.
type Segment struct {
	Text  string
	Color string
}

// Highlighted reports whether the segment matched a keyword.
func (s Segment) Highlighted() bool { return s.Color != "" }

// Highlighter colors whole-word keyword matches, case-insensitively.
type Highlighter struct {
	keywords []keyword
	size     int
}

// New builds a Highlighter from rules. Keywords are tried longest first; a
// keyword listed under more than one rule keeps its first color. size is the
// point size applied to every run.
func New(rules []Rule, size int) *Highlighter {
	type entry struct {
		word  string
		color string
	}
	var entries []entry
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			entries = append(entries, entry{word: kw, color: strings.TrimPrefix(r.Color, "#")})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].word) > len(entries[j].word)
	})

	h := &Highlighter{size: size}
	for _, e := range entries {
		h.keywords = append(h.keywords, keyword{
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(e.word) + `\b`),
			color: e.color,
		})
	}
	return h
}

type match struct {
	start, end int
	color      string
}

// Segments splits text into plain and highlighted pieces. Matches are
// ordered by start offset, ties keeping keyword order; a match that begins
// inside an earlier one is skipped.
func (h *Highlighter) Segments(text string) []Segment {
	if text == "" {
		return nil
	}

	var matches []match
	for _, kw := range h.keywords {
		for _, loc := range kw.re.FindAllStringIndex(text, -1) {
			matches = append(matches, match{start: loc[0], end: loc[1], color: kw.color})
		}
	}
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	var segs []Segment
	consumed := 0
	for _, m := range matches {
		if m.start < consumed {
			continue
		}
		if m.start > consumed {
			segs = append(segs, Segment{Text: text[consumed:m.start]})
		}
		segs = append(segs, Segment{Text: text[m.start:m.end], Color: m.color})
		consumed = m.end
	}
	if consumed < len(text) {
		segs = append(segs, Segment{Text: text[consumed:]})
	}
	return segs
}

// Highlight appends text to p as runs. Plain runs use defaultColor and the
// caller's bold flag; keyword runs are always bold.
func (h *Highlighter) Highlight(p docbuilder.Paragraph, text, font, defaultColor string, bold bool) {
	for _, seg := range h.Segments(text) {
		style := docbuilder.RunStyle{Font: font, Size: h.size, Color: defaultColor, Bold: bold}
		if seg.Highlighted() {
			style.Color = seg.Color
			style.Bold = true
		}
		p.AddRun(seg.Text, style)
	}
}
