package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/prettynotes/internal/outline"
	"github.com/dgallion1/prettynotes/internal/preserve"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusChunking   JobStatus = "chunking"
	StatusOutlining  JobStatus = "outlining"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress     Progress          `json:"progress"`
	Outline      outline.Counts    `json:"outline"`
	Preservation []preserve.Report `json:"preservation"`
	Fallback     Fallback          `json:"fallback,omitempty"`

	// ContentHash is the SHA-256 of the uploaded bytes; TextHash is the
	// SHA-256 of the extracted text, empty when extraction failed.
	ContentHash string    `json:"content_hash,omitempty"`
	TextHash    string    `json:"text_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	InputPath  string `json:"-"`
	OutputPath string `json:"-"`
	errors     []string
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename, inputPath, outputPath string) *Job {
	now := time.Now()
	return &Job{
		ID:         NewJobID(),
		Status:     StatusQueued,
		Phase:      "queued",
		Filename:   filename,
		InputPath:  inputPath,
		OutputPath: outputPath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	ChunksFailed    int      `json:"chunks_failed"`
	Errors          []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and returns them so their files can be
// deleted. Only finished jobs expire; queued and running jobs still own
// their input file.
func (s *JobStore) Cleanup() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var expired []*Job
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := job.Status.Done() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
			expired = append(expired, job)
		}
	}
	return expired
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// ChunkDone records the outcome of one chunk's LLM call. index is 0-based.
func (j *Job) ChunkDone(index int, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed++
	if err != nil {
		j.Progress.ChunksFailed++
		j.errors = append(j.errors, fmt.Sprintf("chunk %d: %s", index+1, err))
		j.Progress.Errors = j.errors
	}
	j.UpdatedAt = time.Now()
}

// AddPreservation records a content preservation report.
func (j *Job) AddPreservation(r preserve.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Preservation = append(j.Preservation, r)
	j.UpdatedAt = time.Now()
}

// Finish stores the conversion result.
func (j *Job) Finish(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Outline = res.Outline
	j.Fallback = res.Fallback
	j.TextHash = res.TextHash
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string            `json:"job_id"`
	Status       JobStatus         `json:"status"`
	Phase        string            `json:"phase"`
	Filename     string            `json:"filename"`
	Progress     Progress          `json:"progress"`
	Outline      outline.Counts    `json:"outline"`
	Preservation []preserve.Report `json:"preservation"`
	Fallback     Fallback          `json:"fallback,omitempty"`
	ContentHash  string            `json:"content_hash,omitempty"`
	TextHash     string            `json:"text_hash,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	reports := append([]preserve.Report{}, j.Preservation...)
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			TotalChunks:     j.Progress.TotalChunks,
			ChunksProcessed: j.Progress.ChunksProcessed,
			ChunksFailed:    j.Progress.ChunksFailed,
			Errors:          errs,
		},
		Outline:      j.Outline,
		Preservation: reports,
		Fallback:     j.Fallback,
		ContentHash:  j.ContentHash,
		TextHash:     j.TextHash,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
