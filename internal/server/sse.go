package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
)

// SSEWriter helps write Server-Sent Events. It is safe for concurrent use.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event describing err.
func (s *SSEWriter) WriteError(status int, err error) {
	body := errorBody(err)
	body.Status = status
	s.WriteEvent("error", body) //nolint:errcheck
}

// RunStreamResult is the payload of the final "complete" event.
type RunStreamResult struct {
	Profile  *types.Profile     `json:"profile"`
	Analysis *types.JobAnalysis `json:"analysis"`
	Tailored *types.Profile     `json:"tailored"`
	Coverage analysis.Coverage  `json:"coverage"`
	PDF      []byte             `json:"pdf,omitempty"` // base64 in JSON
}

// handleRunStream runs the whole pipeline for a multipart upload and streams progress as SSE.
// Form fields: file (resume PDF), job_description, job_url, job_title, company, template_id, skip_render.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: "expected a multipart form upload"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: "missing resume file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: "resume must be a PDF"})
		return
	}

	job := types.JobDescription{
		RawText: r.FormValue("job_description"),
		URL:     r.FormValue("job_url"),
		Title:   r.FormValue("job_title"),
		Company: r.FormValue("company"),
	}
	if job.RawText == "" && job.URL == "" {
		s.failRequest(w, r, &ErrValidation{Field: "job_description", Message: "job_description or job_url is required"})
		return
	}
	skipRender, _ := strconv.ParseBool(r.FormValue("skip_render"))

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), pipeline.RunOptions{
		ResumePDF:  data,
		Job:        job,
		TemplateID: r.FormValue("template_id"),
		SkipRender: skipRender,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent("progress", event); err != nil {
				s.logger.Debug().Err(err).Msg("client stopped reading progress")
			}
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("streamed run failed")
		sse.WriteError(HTTPStatus(err), err)
		return
	}

	sse.WriteEvent("complete", RunStreamResult{ //nolint:errcheck
		Profile:  result.Profile,
		Analysis: result.Analysis,
		Tailored: result.Tailored,
		Coverage: result.Coverage,
		PDF:      result.PDF,
	})
}
