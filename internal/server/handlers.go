package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ParseResponse is the body of POST /parse-resume.
type ParseResponse struct {
	Profile *types.Profile    `json:"profile"`
	Repairs []sanitize.Repair `json:"repairs"`
}

// TailorRequest is the body of POST /tailor-resume.
type TailorRequest struct {
	Resume     json.RawMessage `json:"resume"`
	JDAnalysis json.RawMessage `json:"jd_analysis"`
}

// TailorResponse is the body returned by POST /tailor-resume.
type TailorResponse struct {
	Resume   *types.Profile    `json:"resume"`
	Coverage analysis.Coverage `json:"coverage"`
}

// CreateHistoryRequest is the body of POST /history.
type CreateHistoryRequest struct {
	JobDescription string          `json:"job_description"`
	Content        json.RawMessage `json:"content"`
}

// handleParseResume accepts a multipart upload in the "file" field and returns the structured profile.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: "expected a multipart form upload"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: "missing resume file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.failRequest(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		s.failRequest(w, r, &ErrValidation{Field: "file", Message: fmt.Sprintf("%s is not a PDF", header.Filename)})
		return
	}

	result, err := s.pipeline.ParseResume(r.Context(), data)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	repairs := result.Repairs
	if repairs == nil {
		repairs = []sanitize.Repair{}
	}
	s.jsonResponse(w, http.StatusOK, ParseResponse{Profile: result.Profile, Repairs: repairs})
}

// handleAnalyzeJD analyzes a JobDescription body.
func (s *Server) handleAnalyzeJD(w http.ResponseWriter, r *http.Request) {
	var jd types.JobDescription
	if err := decodeBody(w, r, &jd); err != nil {
		s.failRequest(w, r, err)
		return
	}
	if strings.TrimSpace(jd.RawText) == "" && jd.URL == "" {
		s.failRequest(w, r, &ErrValidation{Field: "raw_text", Message: "raw_text or url is required"})
		return
	}

	result, err := s.pipeline.Analyze(r.Context(), jd)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleTailorResume tailors a resume for an analysis and reports skill coverage.
func (s *Server) handleTailorResume(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failRequest(w, r, err)
		return
	}
	profile, err := profileFromJSON("resume", req.Resume)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	jobAnalysis, err := analysisFromJSON("jd_analysis", req.JDAnalysis)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	tailored := s.pipeline.Tailor(r.Context(), profile, jobAnalysis)
	s.jsonResponse(w, http.StatusOK, TailorResponse{
		Resume:   tailored,
		Coverage: analysis.SkillCoverage(tailored, jobAnalysis),
	})
}

// handleGeneratePDF compiles a profile body with the template_id query parameter.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		s.failRequest(w, r, err)
		return
	}
	profile, err := profileFromJSON("resume", raw)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	pdf, err := s.pipeline.Render(r.Context(), profile, r.URL.Query().Get("template_id"))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Error().Err(err).Msg("error writing PDF response")
	}
}

// handleTemplates lists the available template ids.
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"templates": s.pipeline.TemplateIDs()})
}

// handleGetProfile returns the saved base profile for the caller.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) || !s.ownsProfile(w, r) {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), middleware.UserKey(r))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handlePutProfile replaces the saved base profile for the caller.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) || !s.ownsProfile(w, r) {
		return
	}
	var raw json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		s.failRequest(w, r, err)
		return
	}
	profile, err := profileFromJSON("profile", raw)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	if err := s.store.SaveProfile(r.Context(), middleware.UserKey(r), profile); err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleListHistory lists the caller's tailoring history, newest first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	entries, err := s.store.ListHistory(r.Context(), middleware.UserKey(r), db.DefaultHistoryLimit)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

// handleCreateHistory saves a tailored profile with its job description.
func (s *Server) handleCreateHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	var req CreateHistoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failRequest(w, r, err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.failRequest(w, r, &ErrValidation{Field: "job_description", Message: "is required"})
		return
	}
	profile, err := profileFromJSON("content", req.Content)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	entry := &db.HistoryEntry{JobDescription: req.JobDescription, Content: profile}
	if err := s.store.CreateHistory(r.Context(), middleware.UserKey(r), entry); err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

// handleGetHistory returns one history entry owned by the caller.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	entry, err := s.store.GetHistory(r.Context(), middleware.UserKey(r), id)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil {
		s.failRequest(w, r, &ErrNotConfigured{Feature: "database"})
		return false
	}
	return true
}

// ownsProfile rejects access to another user's profile.
func (s *Server) ownsProfile(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("key") != middleware.UserKey(r) {
		s.errorResponse(w, http.StatusForbidden, "profile belongs to another user")
		return false
	}
	return true
}

// decodeBody decodes a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// profileFromJSON repairs a client-supplied profile the same way model output is repaired.
// Bodies that cannot be repaired are request errors, not upstream errors.
func profileFromJSON(field string, data json.RawMessage) (*types.Profile, error) {
	raw, err := decodeAny(field, data)
	if err != nil {
		return nil, err
	}
	result, err := sanitize.Sanitize(raw)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: err.Error()}
	}
	return result.Profile, nil
}

func analysisFromJSON(field string, data json.RawMessage) (*types.JobAnalysis, error) {
	raw, err := decodeAny(field, data)
	if err != nil {
		return nil, err
	}
	result, _, err := sanitize.SanitizeJobAnalysis(raw)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: err.Error()}
	}
	return result, nil
}

func decodeAny(field string, data json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, &ErrValidation{Field: field, Message: "is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ErrValidation{Field: field, Message: "invalid JSON"}
	}
	return raw, nil
}
