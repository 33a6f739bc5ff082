package llm

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	outcome    outcome
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeEmpty
	outcomeBlocked
	outcomeError
)

// StatsSnapshot is a point-in-time aggregate of LLM calls in the window.
type StatsSnapshot struct {
	Model   string  `json:"model,omitempty"`
	Count   int     `json:"count"`
	Empty   int     `json:"empty"`
	Blocked int     `json:"blocked"`
	Errors  int     `json:"errors"`
	MinMs   int64   `json:"min_ms"`
	MaxMs   int64   `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P95Ms   float64 `json:"p95_ms"`
	P99Ms   float64 `json:"p99_ms"`
}

// LLMStats tracks recent LLM call latencies and outcomes within a rolling
// window.
type LLMStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewLLMStats(maxAge time.Duration) *LLMStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LLMStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds a successful call.
func (s *LLMStats) Record(durationMs int64) {
	s.record(durationMs, outcomeOK)
}

// RecordResult adds a call and classifies err.
func (s *LLMStats) RecordResult(durationMs int64, err error) {
	switch {
	case err == nil:
		s.record(durationMs, outcomeOK)
	case errors.Is(err, ErrEmpty):
		s.record(durationMs, outcomeEmpty)
	case errors.Is(err, ErrBlocked):
		s.record(durationMs, outcomeBlocked)
	default:
		s.record(durationMs, outcomeError)
	}
}

func (s *LLMStats) record(durationMs int64, o outcome) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
		outcome:    o,
	})
}

func (s *LLMStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var snap StatsSnapshot
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		switch sm.outcome {
		case outcomeEmpty:
			snap.Empty++
		case outcomeBlocked:
			snap.Blocked++
		case outcomeError:
			snap.Errors++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *LLMStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}

// Instrumented wraps a Generator and records every call in Stats.
type Instrumented struct {
	Generator
	Stats *LLMStats
}

// NewInstrumented wraps g with a fresh stats window.
func NewInstrumented(g Generator, window time.Duration) *Instrumented {
	return &Instrumented{Generator: g, Stats: NewLLMStats(window)}
}

func (i *Instrumented) Generate(ctx context.Context, prompt, chunk string) (string, error) {
	start := time.Now()
	out, err := i.Generator.Generate(ctx, prompt, chunk)
	i.Stats.RecordResult(time.Since(start).Milliseconds(), err)
	return out, err
}

// Snapshot returns the stats window tagged with the model name.
func (i *Instrumented) Snapshot() StatsSnapshot {
	snap := i.Stats.Snapshot()
	snap.Model = i.Model()
	return snap
}
