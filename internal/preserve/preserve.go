// Package preserve scores how much of a source text survives in an LLM
// response. Scores are advisory: callers log them and keep the response.
package preserve

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceRe = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"and": true, "or": true, "to": true, "of": true, "in": true,
	"for": true, "with": true, "on": true, "from": true, "at": true,
}

// LongSentenceWords is the minimum word count for a source sentence to be
// checked by StrictScore.
const LongSentenceWords = 8

// SentenceCoverage is the share of a source sentence's words that one
// candidate sentence must contain for the source sentence to count as kept.
const SentenceCoverage = 0.9

func words(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range words(s) {
		set[w] = true
	}
	return set
}

// SimpleScore is the fraction of candidate's distinct non-stopword words that
// also appear in source. It is 1 when either side is empty or the candidate
// has no significant words.
func SimpleScore(candidate, source string) float64 {
	if strings.TrimSpace(candidate) == "" || strings.TrimSpace(source) == "" {
		return 1
	}
	src := wordSet(source)

	total, found := 0, 0
	for w := range wordSet(candidate) {
		if stopwords[w] {
			continue
		}
		total++
		if src[w] {
			found++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(found) / float64(total)
}

// StrictScore is the fraction of source's long sentences whose words are at
// least SentenceCoverage covered by a single candidate sentence or line.
func StrictScore(candidate, source string) float64 {
	if strings.TrimSpace(candidate) == "" || strings.TrimSpace(source) == "" {
		return 1
	}

	var candSets []map[string]bool
	for _, s := range sentences(candidate) {
		if set := wordSet(s); len(set) > 0 {
			candSets = append(candSets, set)
		}
	}

	total, kept := 0, 0
	for _, s := range sentences(source) {
		if len(words(s)) < LongSentenceWords {
			continue
		}
		total++
		srcSet := wordSet(s)
		for _, cs := range candSets {
			if coverage(srcSet, cs) >= SentenceCoverage {
				kept++
				break
			}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(kept) / float64(total)
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coverage(want, have map[string]bool) float64 {
	if len(want) == 0 {
		return 1
	}
	n := 0
	for w := range want {
		if have[w] {
			n++
		}
	}
	return float64(n) / float64(len(want))
}

// Mode selects the scoring variant.
type Mode string

const (
	ModeSimple Mode = "simple"
	ModeStrict Mode = "strict"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeSimple:
		return ModeSimple, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown preservation mode %q", s)
}

// DefaultThreshold is the log threshold used for a mode when none is set.
func DefaultThreshold(m Mode) float64 {
	if m == ModeStrict {
		return 0.9
	}
	return 0.7
}

// Report is the outcome of checking one chunk.
type Report struct {
	Chunk     int     `json:"chunk"`
	Mode      Mode    `json:"mode"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
}

// Checker scores chunk responses and logs the result.
type Checker struct {
	mode      Mode
	threshold float64
	log       *slog.Logger
}

// NewChecker returns a Checker. A non-positive threshold selects the mode's
// default.
func NewChecker(mode Mode, threshold float64, log *slog.Logger) *Checker {
	if mode == "" {
		mode = ModeSimple
	}
	if threshold <= 0 {
		threshold = DefaultThreshold(mode)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Checker{mode: mode, threshold: threshold, log: log}
}

// Score computes the configured variant without logging.
func (c *Checker) Score(candidate, source string) float64 {
	if c.mode == ModeStrict {
		return StrictScore(candidate, source)
	}
	return SimpleScore(candidate, source)
}

// Check scores candidate against source and logs the outcome. It never
// rejects the candidate.
func (c *Checker) Check(chunk int, candidate, source string) Report {
	score := c.Score(candidate, source)
	r := Report{
		Chunk:     chunk,
		Mode:      c.mode,
		Score:     score,
		Threshold: c.threshold,
		Passed:    score >= c.threshold,
	}
	attrs := []any{"chunk", chunk, "mode", c.mode, "score", fmt.Sprintf("%.2f", score*100)}
	if r.Passed {
		c.log.Info("content preservation check passed", attrs...)
	} else {
		c.log.Warn("content preservation below threshold, keeping outline", attrs...)
	}
	return r
}
