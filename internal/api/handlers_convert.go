package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/prettynotes/internal/parser"
	"github.com/dgallion1/prettynotes/internal/pipeline"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// uploadDir holds inputs until their job finishes.
const uploadDir = "uploads"

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	job := pipeline.NewJob(filename, "", "")
	dir := s.orchestrator.OutputDir()
	job.InputPath = filepath.Join(dir, uploadDir, job.ID+filepath.Ext(filename))
	job.OutputPath = pipeline.OutputPath(job.ID+"_"+filename, dir)
	job.ContentHash = pipeline.ContentHashHex(data)

	if err := saveUpload(job.InputPath, data); err != nil {
		s.log.Error("save upload failed", "job_id", job.ID, "error", err)
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	if err := s.orchestrator.Submit(job); err != nil {
		os.Remove(job.InputPath)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/convert/%s/status", job.ID),
	})
}

func (s *Server) handleConvertStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{"job": snap}
	if snap.Status == pipeline.StatusCompleted {
		resp["download_url"] = fmt.Sprintf("/api/convert/%s/download", snap.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		jsonError(w, "conversion failed", http.StatusConflict)
		return
	default:
		jsonError(w, fmt.Sprintf("conversion not finished (status %s)", snap.Status), http.StatusConflict)
		return
	}

	f, err := os.Open(job.OutputPath)
	if err != nil {
		s.log.Error("open output failed", "job_id", snap.ID, "error", err)
		jsonError(w, "output no longer available", http.StatusGone)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		jsonError(w, "output no longer available", http.StatusGone)
		return
	}

	name := pipeline.OutputPath(snap.Filename, "")
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func saveUpload(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// sanitizeFilename keeps only the base name of an uploaded file.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
