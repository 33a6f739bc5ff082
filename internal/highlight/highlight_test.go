package highlight

import (
	"testing"

	"github.com/dgallion1/prettynotes/internal/docbuilder"
)

func TestHighlight_TeamMustAct(t *testing.T) {
	h := New(DefaultRules, 12)
	p := &docbuilder.RecordedParagraph{}
	h.Highlight(p, "The team must act", "Courier New", DefaultTextColor, false)

	want := []docbuilder.Run{
		{Text: "The ", Style: docbuilder.RunStyle{Font: "Courier New", Size: 12, Color: "000000"}},
		{Text: "team", Style: docbuilder.RunStyle{Font: "Courier New", Size: 12, Color: "A6E22E", Bold: true}},
		{Text: " ", Style: docbuilder.RunStyle{Font: "Courier New", Size: 12, Color: "000000"}},
		{Text: "must", Style: docbuilder.RunStyle{Font: "Courier New", Size: 12, Color: "00D8B0", Bold: true}},
		{Text: " act", Style: docbuilder.RunStyle{Font: "Courier New", Size: 12, Color: "000000"}},
	}
	if len(p.Runs) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(p.Runs), p.Runs)
	}
	for i := range want {
		if p.Runs[i] != want[i] {
			t.Errorf("run %d: expected %+v, got %+v", i, want[i], p.Runs[i])
		}
	}
}

func TestSegments_WholeWordOnly(t *testing.T) {
	h := New(DefaultRules, 12)
	tests := []struct {
		text string
		want int // highlighted segment count
	}{
		{"strategically speaking", 0},
		{"a strategic plan", 1},
		{"Strategic", 1},
		{"teamwork", 0},
		{"into the data", 2},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := 0
			for _, s := range h.Segments(tt.text) {
				if s.Highlighted() {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("expected %d highlighted segments, got %d", tt.want, got)
			}
		})
	}
}

func TestSegments_PreservesMatchedCase(t *testing.T) {
	h := New(DefaultRules, 12)
	segs := h.Segments("FOR Research")
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %+v", segs)
	}
	if segs[0].Text != "FOR" || segs[0].Color != "FF00FF" {
		t.Errorf("segment 0: got %+v", segs[0])
	}
	if segs[2].Text != "Research" || segs[2].Color != "FFD700" {
		t.Errorf("segment 2: got %+v", segs[2])
	}
}

func TestSegments_NoMatchesSinglePlainRun(t *testing.T) {
	h := New(DefaultRules, 12)
	segs := h.Segments("Photosynthesis happens")
	if len(segs) != 1 || segs[0].Text != "Photosynthesis happens" || segs[0].Highlighted() {
		t.Errorf("expected one plain segment, got %+v", segs)
	}
}

func TestSegments_LongestKeywordWinsTie(t *testing.T) {
	rules := []Rule{
		{Color: "111111", Keywords: []string{"model"}},
		{Color: "222222", Keywords: []string{"data"}},
		{Color: "333333", Keywords: []string{"data model"}},
	}
	h := New(rules, 12)

	segs := h.Segments("a data model here")
	want := []Segment{
		{Text: "a "},
		{Text: "data model", Color: "333333"},
		{Text: " here"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

func TestSegments_OverlapStartingInsideIsSkipped(t *testing.T) {
	rules := []Rule{
		{Color: "AAAAAA", Keywords: []string{"key point"}},
		{Color: "BBBBBB", Keywords: []string{"point of view"}},
	}
	h := New(rules, 12)

	// "point of view" starts inside "key point" and is dropped entirely.
	segs := h.Segments("key point of view")
	want := []Segment{
		{Text: "key point", Color: "AAAAAA"},
		{Text: " of view"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

func TestSegments_DuplicateKeywordKeepsFirstColor(t *testing.T) {
	rules := []Rule{
		{Color: "#123456", Keywords: []string{"Alpha"}},
		{Color: "654321", Keywords: []string{"alpha"}},
	}
	segs := New(rules, 12).Segments("alpha")
	if len(segs) != 1 || segs[0].Color != "123456" {
		t.Errorf("expected single segment colored 123456, got %+v", segs)
	}
}

func TestHighlight_CallerBoldAppliesToPlainRuns(t *testing.T) {
	h := New(DefaultRules, 12)
	p := &docbuilder.RecordedParagraph{}
	h.Highlight(p, "Topic and scope", "Courier New", "333333", true)

	for _, r := range p.Runs {
		if !r.Style.Bold {
			t.Errorf("run %q: expected bold", r.Text)
		}
	}
	if p.Runs[0].Style.Color != "333333" {
		t.Errorf("expected default color on plain run, got %q", p.Runs[0].Style.Color)
	}
}

func TestHighlight_EmptyTextAddsNothing(t *testing.T) {
	p := &docbuilder.RecordedParagraph{}
	New(DefaultRules, 12).Highlight(p, "", "Courier New", DefaultTextColor, false)
	if len(p.Runs) != 0 {
		t.Errorf("expected no runs, got %d", len(p.Runs))
	}
}

func TestHighlight_RunsReconstructText(t *testing.T) {
	h := New(DefaultRules, 12)
	text := "Key data is critical for the team, and research supports it."
	p := &docbuilder.RecordedParagraph{}
	h.Highlight(p, text, "Courier New", DefaultTextColor, false)
	if got := p.Text(); got != text {
		t.Errorf("runs do not reconstruct text: %q", got)
	}
}
