package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/prettynotes/internal/docbuilder"
	"github.com/dgallion1/prettynotes/internal/llm"
	"github.com/dgallion1/prettynotes/internal/render"
)

type reply struct {
	out string
	err error
}

// fakeGen answers calls in order; the last reply repeats.
type fakeGen struct {
	mu      sync.Mutex
	replies []reply
	chunks  []string
	prompts []string
}

func (f *fakeGen) Generate(ctx context.Context, prompt, chunk string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.chunks)
	f.chunks = append(f.chunks, chunk)
	f.prompts = append(f.prompts, prompt)
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i].out, f.replies[i].err
}

func (f *fakeGen) Model() string { return "fake" }

func (f *fakeGen) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

// memDoc records paragraphs and remembers where it was saved.
type memDoc struct {
	docbuilder.Recorder
	saveErr error
	saved   string
}

func (d *memDoc) Save(path string) error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.saved = path
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	conv *Converter
	gen  *fakeGen
	doc  *memDoc
}

func newHarness(text string, extractErr error, replies ...reply) *harness {
	h := &harness{gen: &fakeGen{replies: replies}, doc: &memDoc{}}
	h.conv = NewConverter(h.gen, nil, render.New(render.DefaultStyle()), discard(), Options{
		MaxChunkChars: 20,
		Extract: func(string) (string, error) {
			return text, extractErr
		},
		NewDocument: func() docbuilder.Document { return h.doc },
	})
	return h
}

func (h *harness) texts() []string {
	var out []string
	for _, p := range h.doc.Paragraphs {
		out = append(out, p.Text())
	}
	return out
}

func TestConvert_Outline(t *testing.T) {
	h := newHarness("Cells divide often.", nil, reply{out: "1. Cells\n|-- Cells divide often"})

	res, err := h.conv.Convert(context.Background(), "in/bio.pdf", "out/bio.docx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Fallback != FallbackNone {
		t.Errorf("expected no fallback, got %q", res.Fallback)
	}
	if res.Chunks != 1 || res.ChunksFailed != 0 {
		t.Errorf("unexpected chunk counts: %+v", res)
	}
	if res.Outline.Sections != 1 || res.Outline.Bullets != 1 {
		t.Errorf("unexpected outline counts: %+v", res.Outline)
	}
	if len(res.Preservation) != 1 || !res.Preservation[0].Passed {
		t.Errorf("expected one passing preservation report, got %+v", res.Preservation)
	}
	if h.doc.saved != "out/bio.docx" {
		t.Errorf("expected save to out/bio.docx, got %q", h.doc.saved)
	}
	want := []string{"1. Cells", "|-- Cells divide often", "\n"}
	if got := h.texts(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConvert_ChunksOutlinedInOrder(t *testing.T) {
	h := newHarness("first part\n\nsecond part\n\nthird part", nil,
		reply{out: "1. First\n|-- first part"},
		reply{out: "2. Second\n|-- second part"},
		reply{out: "3. Third\n|-- third part"},
	)
	res, err := h.conv.Convert(context.Background(), "notes.txt", "out.docx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Chunks != 3 || res.Outline.Sections != 3 {
		t.Fatalf("expected 3 chunks and sections, got %+v", res)
	}
	for i, want := range []string{"first part", "second part", "third part"} {
		if h.gen.chunks[i] != want {
			t.Errorf("call %d: expected chunk %q, got %q", i, want, h.gen.chunks[i])
		}
		if !strings.Contains(h.gen.prompts[i], "chunk "+string(rune('1'+i))+" of 3") {
			t.Errorf("call %d: prompt missing chunk position", i)
		}
	}
	if got := h.texts()[0]; got != "1. First" {
		t.Errorf("expected first section first, got %q", got)
	}
}

func TestConvert_FailedChunksDropped(t *testing.T) {
	h := newHarness("first part\n\nsecond part\n\nthird part", nil,
		reply{err: llm.ErrBlocked},
		reply{err: llm.ErrEmpty},
		reply{out: "1. Third\n|-- third part"},
	)
	res, err := h.conv.Convert(context.Background(), "notes.txt", "out.docx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.ChunksFailed != 2 || res.Fallback != FallbackNone {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Outline.Sections != 1 || h.texts()[0] != "1. Third" {
		t.Errorf("expected only the third chunk's outline, got %q", h.texts())
	}
}

func TestConvert_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		extractErr error
		replies    []reply
		want       Fallback
		wantFirst  string
		wantParas  int
	}{
		{
			name:       "extraction failed",
			extractErr: errors.New("corrupt pdf"),
			replies:    []reply{{out: "unused"}},
			want:       FallbackNoText,
			wantFirst:  "Could not extract any text from lecture.pdf.",
			wantParas:  1,
		},
		{
			name:      "no processable chunks",
			text:      "  \n\n \t ",
			replies:   []reply{{out: "unused"}},
			want:      FallbackNoChunks,
			wantFirst: msgNoChunks,
			wantParas: 1,
		},
		{
			name:      "all chunks failed",
			text:      "some text",
			replies:   []reply{{err: errors.New("connection refused")}},
			want:      FallbackAllChunksFailed,
			wantFirst: msgAllFailed,
			wantParas: 1,
		},
		{
			name:      "outline not parseable",
			text:      "some text",
			replies:   []reply{{out: "Here is some prose without structure."}},
			want:      FallbackUnparsed,
			wantFirst: "No structured content to generate DOCX.",
			wantParas: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.text, tt.extractErr, tt.replies...)
			res, err := h.conv.Convert(context.Background(), "/tmp/lecture.pdf", "out.docx")
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if res.Fallback != tt.want {
				t.Errorf("expected fallback %q, got %q", tt.want, res.Fallback)
			}
			texts := h.texts()
			if len(texts) != tt.wantParas {
				t.Fatalf("expected %d paragraphs, got %q", tt.wantParas, texts)
			}
			if texts[0] != tt.wantFirst {
				t.Errorf("expected first paragraph %q, got %q", tt.wantFirst, texts[0])
			}
			if h.doc.saved == "" {
				t.Error("fallback document was not saved")
			}
		})
	}
}

func TestConvert_UnparsedKeepsRawText(t *testing.T) {
	h := newHarness("text", nil, reply{out: "Loose notes about the team"})
	if _, err := h.conv.Convert(context.Background(), "a.txt", "a.docx"); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got := h.texts()[1]; got != "Loose notes about the team" {
		t.Errorf("expected raw outline text, got %q", got)
	}
}

func TestConvert_SaveFailureIsReturned(t *testing.T) {
	h := newHarness("text", nil, reply{out: "1. Topic"})
	saveErr := errors.New("disk full")
	h.doc.saveErr = saveErr

	_, err := h.conv.Convert(context.Background(), "a.txt", "a.docx")
	if !errors.Is(err, saveErr) {
		t.Errorf("expected save error, got %v", err)
	}
}

func TestConvert_NoRetryByDefault(t *testing.T) {
	h := newHarness("text", nil, reply{err: &llm.RetryableError{StatusCode: 429}}, reply{out: "1. Topic"})
	res, err := h.conv.Convert(context.Background(), "a.txt", "a.docx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if h.gen.calls() != 1 {
		t.Errorf("expected a single call, got %d", h.gen.calls())
	}
	if res.Fallback != FallbackAllChunksFailed {
		t.Errorf("expected all chunks failed, got %q", res.Fallback)
	}
}

func TestConvert_RetriesTransientErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for backoff")
	}
	gen := &fakeGen{replies: []reply{{err: &llm.RetryableError{StatusCode: 503}}, {out: "1. Topic"}}}
	doc := &memDoc{}
	conv := NewConverter(gen, nil, render.New(render.DefaultStyle()), discard(), Options{
		MaxRetries:  1,
		Extract:     func(string) (string, error) { return "text", nil },
		NewDocument: func() docbuilder.Document { return doc },
	})
	res, err := conv.Convert(context.Background(), "a.txt", "a.docx")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if gen.calls() != 2 || res.Fallback != FallbackNone {
		t.Errorf("expected retry to succeed, calls=%d result=%+v", gen.calls(), res)
	}
}

func TestConvert_TracksJobProgress(t *testing.T) {
	h := newHarness("first part\n\nsecond part", nil,
		reply{err: llm.ErrEmpty},
		reply{out: "1. Second\n|-- second part"},
	)
	job := NewJob("notes.txt", "in", "out")
	if _, err := h.conv.Run(context.Background(), "notes.txt", "out.docx", job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	snap := job.Snapshot()
	if snap.Progress.TotalChunks != 2 || snap.Progress.ChunksProcessed != 2 || snap.Progress.ChunksFailed != 1 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
	if len(snap.Progress.Errors) != 1 || !strings.HasPrefix(snap.Progress.Errors[0], "chunk 1:") {
		t.Errorf("expected error for chunk 1, got %v", snap.Progress.Errors)
	}
	if len(snap.Preservation) != 1 || snap.Preservation[0].Chunk != 2 {
		t.Errorf("expected one preservation report for chunk 2, got %+v", snap.Preservation)
	}
}

func TestConvert_WritesDocx(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lecture.txt")
	if err := os.WriteFile(in, []byte("Cells divide often."), 0o644); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGen{replies: []reply{{out: "1. Cells\n|-- Cells divide often"}}}
	conv := NewConverter(gen, nil, render.New(render.DefaultStyle()), discard(), Options{LLMTimeout: time.Second})

	out := OutputPath(in, filepath.Join(dir, "generated"))
	if _, err := conv.Convert(context.Background(), in, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output is empty")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, dir, want string
	}{
		{"/data/lecture.pdf", "out", filepath.Join("out", "lecture_styled_outline.docx")},
		{"notes.v2.pdf", "", "notes.v2_styled_outline.docx"},
		{"README", "docs", filepath.Join("docs", "README_styled_outline.docx")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.dir); got != tt.want {
			t.Errorf("OutputPath(%q, %q): expected %q, got %q", tt.in, tt.dir, tt.want, got)
		}
	}
}
