package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalyzeRequest represents the request body for POST /analyses.
// An empty resume_id defaults to the fingerprint of the résumé text.
type AnalyzeRequest struct {
	ResumeID         string `json:"resume_id,omitempty"`
	ResumeText       string `json:"resume_text"`
	JobDescriptionID string `json:"job_description_id,omitempty"`
	JobDescription   string `json:"job_description,omitempty"`
}

// ExtractRequest represents the request body for POST /job-requirements
type ExtractRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
}

// ParseRequest represents the request body for POST /resume/parse
type ParseRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

// ParseResponse is a parsed résumé together with its content fingerprint
type ParseResponse struct {
	ResumeID string               `json:"resume_id"`
	Resume   *types.ResumeContent `json:"resume"`
}

// handleSubmit validates the request and schedules a background analysis
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ResumeID == "" && req.ResumeText != "" {
		req.ResumeID = ingestion.Fingerprint(req.ResumeText)
	}

	result, err := s.orchestrator.Submit(r.Context(), analysis.Request{
		ResumeID:         req.ResumeID,
		ResumeText:       req.ResumeText,
		JobDescriptionID: req.JobDescriptionID,
		JobDescription:   req.JobDescription,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("analysis_id", result.ID).Msg("analysis accepted")
	w.Header().Set("Location", "/analyses/"+result.ID)
	s.jsonResponse(w, http.StatusAccepted, result)
}

// handleGetAnalysis returns the current result of an analysis
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := s.orchestrator.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleProgress returns the progress snapshot of a tracked analysis
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.orchestrator.Progress(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshot)
}

// handleRetry starts a new attempt of a finished analysis
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	result, err := s.orchestrator.Retry(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, result)
}

// handleCancel stops a live analysis
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	result, err := s.orchestrator.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleEvents streams progress events until the analysis is terminal
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.broadcaster == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "event streaming is not enabled")
		return
	}
	id := r.PathValue("id")

	// Subscribe before reading state so no transition is missed between the two.
	ch, unsubscribe := s.broadcaster.Subscribe(id)
	defer unsubscribe()

	result, err := s.orchestrator.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Status.Terminal() {
		sse.WriteComplete(result)
		return
	}
	if snapshot, err := s.orchestrator.Progress(id); err == nil {
		if err := sse.WriteEvent("snapshot", snapshot); err != nil {
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if ok {
				if err := sse.WriteProgress(event); err != nil {
					return
				}
				if !event.Status.Terminal() {
					continue
				}
			}
			final, err := s.orchestrator.Get(r.Context(), id)
			if err != nil {
				sse.WriteError(err.Error())
				return
			}
			sse.WriteComplete(final)
			return
		}
	}
}

// handleExtractRequirements extracts structured requirements from a job description
func (s *Server) handleExtractRequirements(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.extractor.Extract(req.JobDescription))
}

// handleParseResume splits résumé text into sections
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	content, err := s.parser.ParseBytes([]byte(req.ResumeText))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ParseResponse{
		ResumeID: ingestion.Fingerprint(req.ResumeText),
		Resume:   content,
	})
}
