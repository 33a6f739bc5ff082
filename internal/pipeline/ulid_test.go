package pipeline

import (
	"sort"
	"testing"
	"time"
)

func TestEncodeULID_Bounds(t *testing.T) {
	var zero, full [16]byte
	for i := range full {
		full[i] = 0xFF
	}
	if got := encodeULID(zero); got != "00000000000000000000000000" {
		t.Errorf("zero: got %q", got)
	}
	if got := encodeULID(full); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("full: got %q", got)
	}
}

func TestNewJobID_UniqueAndSorted(t *testing.T) {
	ids := make([]string, 0, 200)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26 chars, got %d (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
		if i%50 == 0 {
			time.Sleep(2 * time.Millisecond)
		}
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("expected ids to sort in creation order")
	}
}
