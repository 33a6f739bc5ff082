package preserve

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScores_EmptyInputsPass(t *testing.T) {
	for _, fn := range []struct {
		name  string
		score func(string, string) float64
	}{
		{"simple", SimpleScore},
		{"strict", StrictScore},
	} {
		t.Run(fn.name, func(t *testing.T) {
			if got := fn.score("", "anything"); got != 1 {
				t.Errorf("empty candidate: expected 1, got %v", got)
			}
			if got := fn.score("anything", ""); got != 1 {
				t.Errorf("empty source: expected 1, got %v", got)
			}
			if got := fn.score("  ", "\n"); got != 1 {
				t.Errorf("whitespace inputs: expected 1, got %v", got)
			}
		})
	}
}

func TestSimpleScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		source    string
		want      float64
	}{
		{"all found", "Cells\n|-- Cells divide", "Cells divide often.", 1},
		{"half found", "cells mitochondria", "Cells are small.", 0.5},
		{"stopwords ignored", "the cells and the of", "cells", 1},
		{"only stopwords", "the and of", "unrelated text", 1},
		{"case insensitive", "PHOTOSYNTHESIS", "photosynthesis happens", 1},
		{"none found", "quantum gravity", "cells divide", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimpleScore(tt.candidate, tt.source); !approx(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStrictScore(t *testing.T) {
	source := "The mitochondria produce energy for every living cell in the body. Short one. " +
		"Ribosomes assemble proteins from amino acids inside the cytoplasm of cells."

	t.Run("both long sentences kept", func(t *testing.T) {
		candidate := "1. Cells\n" +
			"|-- The mitochondria produce energy for every living cell in the body\n" +
			"|-- Ribosomes assemble proteins from amino acids inside the cytoplasm of cells"
		if got := StrictScore(candidate, source); !approx(got, 1) {
			t.Errorf("expected 1, got %v", got)
		}
	})

	t.Run("one long sentence kept", func(t *testing.T) {
		candidate := "|-- The mitochondria produce energy for every living cell in the body"
		if got := StrictScore(candidate, source); !approx(got, 0.5) {
			t.Errorf("expected 0.5, got %v", got)
		}
	})

	t.Run("paraphrase misses coverage", func(t *testing.T) {
		candidate := "|-- Mitochondria make power\n|-- Ribosomes build proteins"
		if got := StrictScore(candidate, source); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("no long sentences", func(t *testing.T) {
		if got := StrictScore("anything", "Too short. Also short."); got != 1 {
			t.Errorf("expected 1, got %v", got)
		}
	})
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("STRICT"); err != nil || m != ModeStrict {
		t.Errorf("expected strict, got %q %v", m, err)
	}
	if m, err := ParseMode("simple"); err != nil || m != ModeSimple {
		t.Errorf("expected simple, got %q %v", m, err)
	}
	if _, err := ParseMode("fuzzy"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestChecker_LogsAndNeverRejects(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewChecker(ModeSimple, 0, log)

	r := c.Check(3, "quantum gravity", "cells divide")
	if r.Passed {
		t.Error("expected failing report")
	}
	if r.Chunk != 3 || r.Threshold != 0.7 || r.Mode != ModeSimple {
		t.Errorf("unexpected report: %+v", r)
	}
	out := buf.String()
	if !strings.Contains(out, "below threshold") || !strings.Contains(out, "chunk=3") {
		t.Errorf("expected warning with chunk index, got %q", out)
	}

	buf.Reset()
	r = c.Check(4, "cells", "cells divide")
	if !r.Passed || r.Score != 1 {
		t.Errorf("expected passing report, got %+v", r)
	}
	if !strings.Contains(buf.String(), "passed") {
		t.Errorf("expected pass log, got %q", buf.String())
	}
}

func TestNewChecker_Defaults(t *testing.T) {
	c := NewChecker("", 0, nil)
	if c.mode != ModeSimple || c.threshold != 0.7 || c.log == nil {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if s := NewChecker(ModeStrict, 0, nil); s.threshold != 0.9 {
		t.Errorf("expected strict default 0.9, got %v", s.threshold)
	}
}
