package pipeline

import (
	"context"
	"log/slog"
)

// Worker converts one queued job at a time.
type Worker struct {
	conv *Converter
	log  *slog.Logger
}

func NewWorker(conv *Converter, log *slog.Logger) *Worker {
	return &Worker{conv: conv, log: log}
}

// Process runs the conversion for a job and records the outcome on it. The
// uploaded input is removed once the job finishes.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	log.Info("conversion started")

	res, err := w.conv.Run(ctx, job.InputPath, job.OutputPath, job)
	removeFiles(log, job.InputPath)
	job.Finish(res)
	if err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "saving")
		log.Error("conversion failed", "error", err)
		return
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete",
		"chunks", res.Chunks,
		"chunks_failed", res.ChunksFailed,
		"fallback", string(res.Fallback),
	)
}
